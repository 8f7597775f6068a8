package handlers

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/dto"
)

type HealthHandler struct {
	Probe clients.HealthProbe
}

func (h *HealthHandler) Bridge(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok", Service: "storefront-bridge"})
}

// Upstream reports whether the commerce API answers. It always returns 200;
// the body says whether the upstream is ok.
func (h *HealthHandler) Upstream(w http.ResponseWriter, r *http.Request) {
	res := clients.CheckHealth(r.Context(), h.Probe)
	status := "ok"
	if !res.OK {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, dto.UpstreamHealthResponse{
		Status:  status,
		Service: "storefront-bridge",
		Upstream: dto.UpstreamHealth{
			Name:       res.Name,
			OK:         res.OK,
			StatusCode: res.StatusCode,
			Latency:    res.Latency,
			Error:      res.Error,
		},
	})
}
