package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/justsurfingit/jobtracker-web/internal/apierr"
	"github.com/justsurfingit/jobtracker-web/internal/telemetry"
)

// Route is one backend route reachable through the relay.
type Route struct {
	Name   string
	Method string
	// Path may hold {name} placeholders filled from the params passed to
	// Forward, e.g. /api/job/{job_id}/status.
	Path     string
	Timeout  time.Duration
	Fallback string
}

// Resolve fills the path placeholders with escaped values.
func (r Route) Resolve(params map[string]string) string {
	p := r.Path
	for k, v := range params {
		p = strings.ReplaceAll(p, "{"+k+"}", url.PathEscape(v))
	}
	return p
}

// Relayed is a successful backend response, passed through untouched.
type Relayed struct {
	Status      int
	ContentType string
	Body        []byte
}

// ProxyService forwards request bodies to the backend with a bearer token.
type ProxyService struct {
	BaseURL string
	Client  *http.Client
}

// NewProxyService returns a forwarder for baseURL. A nil transport means
// http.DefaultTransport; either way outbound calls are traced.
func NewProxyService(baseURL string, transport http.RoundTripper) *ProxyService {
	return &ProxyService{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Transport: telemetry.Transport(transport)},
	}
}

// Forward sends body to the route under route.Timeout. A non-2xx answer is
// returned as a BackendRejected *apierr.Error, no answer as BackendUnreachable.
func (s *ProxyService) Forward(ctx context.Context, route Route, params map[string]string, body []byte, token string) (*Relayed, error) {
	ctx, cancel := context.WithTimeout(ctx, route.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, route.Method, s.BaseURL+route.Resolve(params), bytes.NewReader(body))
	if err != nil {
		return nil, apierr.Unexpected(fmt.Errorf("%s: build request: %w", route.Name, err))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, apierr.FromTransport(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.FromTransport(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apierr.Rejected(resp.StatusCode, data, route.Fallback)
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/json"
	}
	return &Relayed{Status: resp.StatusCode, ContentType: ct, Body: data}, nil
}
