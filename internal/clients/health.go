package clients

import (
	"context"
	"net/http"
	"time"
)

type HealthProbe struct {
	Name   string
	Client *Client
	Path   string
}

type HealthResult struct {
	Name       string `json:"name"`
	OK         bool   `json:"ok"`
	StatusCode int    `json:"statusCode,omitempty"`
	Latency    string `json:"latency,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CheckHealth probes an API route. The commerce API has no health endpoint,
// so callers point it at a cheap public read.
func CheckHealth(ctx context.Context, probe HealthProbe) HealthResult {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	resp, err := probe.Client.Do(ctx, http.MethodGet, probe.Path, "", nil, http.Header{})
	if err != nil {
		return HealthResult{Name: probe.Name, OK: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	return HealthResult{
		Name:       probe.Name,
		OK:         ok,
		StatusCode: resp.StatusCode,
		Latency:    time.Since(start).Round(time.Millisecond).String(),
	}
}
