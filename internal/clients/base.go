package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

type Client struct {
	Name    string
	BaseURL *url.URL
	HTTP    *http.Client
}

func NewClient(name string, baseURL string, httpClient *http.Client) *Client {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		// Fail fast: config error
		panic(fmt.Sprintf("invalid %s base url %q: %v", name, baseURL, err))
	}
	return &Client{Name: name, BaseURL: u, HTTP: httpClient}
}

// NewHTTPClient returns the client shared by every typed client. Its cookie
// jar carries the session cookie set by the login endpoint on every later
// request.
func NewHTTPClient(timeout time.Duration) (*http.Client, error) {
	jar, err := newJar()
	if err != nil {
		return nil, err
	}
	return &http.Client{Timeout: timeout, Jar: jar}, nil
}

// sessionJar is a cookie jar that can be emptied on logout.
type sessionJar struct {
	mu  sync.RWMutex
	jar *cookiejar.Jar
}

func newJar() (*sessionJar, error) {
	j := &sessionJar{}
	if err := j.reset(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *sessionJar) reset() error {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return err
	}
	j.mu.Lock()
	j.jar = jar
	j.mu.Unlock()
	return nil
}

func (j *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	j.jar.SetCookies(u, cookies)
}

func (j *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.jar.Cookies(u)
}

// ClearCookies drops the session cookie.
func (c *Client) ClearCookies() error {
	if j, ok := c.HTTP.Jar.(*sessionJar); ok {
		return j.reset()
	}
	jar, err := newJar()
	if err != nil {
		return err
	}
	c.HTTP.Jar = jar
	return nil
}

// SessionCookies returns the cookies the jar would send to the API.
func (c *Client) SessionCookies() []*http.Cookie {
	if c.HTTP.Jar == nil {
		return nil
	}
	return c.HTTP.Jar.Cookies(c.BaseURL)
}

// RestoreCookies puts previously saved session cookies back in the jar.
func (c *Client) RestoreCookies(cookies []*http.Cookie) {
	if c.HTTP.Jar == nil || len(cookies) == 0 {
		return
	}
	root := c.BaseURL.ResolveReference(&url.URL{Path: "/"})
	for _, ck := range cookies {
		if ck.Path == "" {
			ck.Path = "/"
		}
	}
	c.HTTP.Jar.SetCookies(root, cookies)
}

func (c *Client) Do(ctx context.Context, method, path, rawQuery string, body io.Reader, headers http.Header) (*http.Response, error) {
	rel := &url.URL{Path: path, RawQuery: rawQuery}
	u := c.BaseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}

	for k, vv := range headers {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	cid := middleware.GetCorrelationID(ctx)
	if cid == "" {
		cid = uuid.NewString()
	}
	req.Header.Set(middleware.HeaderCorrelationID, cid)

	return c.HTTP.Do(req)
}

// doJSON sends in (if non-nil) as a JSON body and decodes a 2xx response
// into out (if non-nil). Non-2xx responses become *APIError.
func (c *Client) doJSON(ctx context.Context, method, path, rawQuery string, in, out any) error {
	var body io.Reader
	headers := http.Header{}
	if in != nil {
		if err := validateRequest(in); err != nil {
			return err
		}
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", c.Name, err)
		}
		body = bytes.NewReader(b)
		headers.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(ctx, method, path, rawQuery, body, headers)
	if err != nil {
		return fmt.Errorf("%s %s %s: %w", c.Name, method, path, err)
	}
	return c.readResponse(resp, out)
}

func (c *Client) readResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", c.Name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(c.Name, resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := decodeJSON(raw, out); err != nil {
		return fmt.Errorf("%s: %w", c.Name, err)
	}
	return nil
}
