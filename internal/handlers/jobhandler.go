package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobtracker-web/internal/apierr"
	"github.com/justsurfingit/jobtracker-web/internal/auth"
	"github.com/justsurfingit/jobtracker-web/internal/config"
	"github.com/justsurfingit/jobtracker-web/internal/services"
	"github.com/rs/zerolog/log"
)

// ProxyRoutes are the backend routes the relay forwards to.
type ProxyRoutes struct {
	JobSubmit    services.Route
	JobStatus    services.Route
	SettingsTest services.Route
}

// DefaultProxyRoutes builds the proxied routes with the configured timeouts.
func DefaultProxyRoutes(t config.Timeouts) ProxyRoutes {
	return ProxyRoutes{
		JobSubmit: services.Route{
			Name:     "job submit",
			Method:   http.MethodPost,
			Path:     "/api/job/submit",
			Timeout:  t.JobSubmit,
			Fallback: "Failed to submit job",
		},
		JobStatus: services.Route{
			Name:     "job status",
			Method:   http.MethodPatch,
			Path:     "/api/job/{job_id}/status",
			Timeout:  t.JobStatus,
			Fallback: "Failed to update status",
		},
		SettingsTest: services.Route{
			Name:     "settings test",
			Method:   http.MethodPost,
			Path:     "/api/settings/test",
			Timeout:  t.SettingsTest,
			Fallback: "Connection test failed",
		},
	}
}

// ProxyHandler mints a backend token from the caller's session and forwards
// the request body. It never caches tokens.
type ProxyHandler struct {
	Minter *auth.Minter
	Proxy  *services.ProxyService
	Routes ProxyRoutes
}

// NewProxyHandler creates the handler with dependencies
func NewProxyHandler(minter *auth.Minter, proxy *services.ProxyService, routes ProxyRoutes) *ProxyHandler {
	return &ProxyHandler{Minter: minter, Proxy: proxy, Routes: routes}
}

// SubmitJob is POST /api/job/submit
func (h *ProxyHandler) SubmitJob(c *gin.Context) {
	h.relay(c, h.Routes.JobSubmit, nil, nil)
}

// UpdateJobStatus is PATCH /api/job/status?job_id=N
func (h *ProxyHandler) UpdateJobStatus(c *gin.Context) {
	jobID := c.Query("job_id")
	if jobID == "" {
		if requireSession(c, "Unauthorized") == nil {
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Job ID is required"})
		return
	}
	h.relay(c, h.Routes.JobStatus, map[string]string{"job_id": jobID}, nil)
}

// TestSettings is POST /api/settings/test. Its error bodies carry
// "success": false so the settings page can render them like a failed test.
func (h *ProxyHandler) TestSettings(c *gin.Context) {
	h.relay(c, h.Routes.SettingsTest, nil, gin.H{"success": false})
}

func (h *ProxyHandler) relay(c *gin.Context, route services.Route, params map[string]string, errExtra gin.H) {
	sess := requireSession(c, "Unauthorized")
	if sess == nil {
		return
	}
	token, _, err := h.Minter.Mint(sess)
	if err != nil {
		log.Error().Err(err).Str("route", route.Name).Msg("token mint failed")
		writeError(c, apierr.MintFailure("Failed to get token", err), errExtra)
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		writeError(c, apierr.Unexpected(err), errExtra)
		return
	}

	out, err := h.Proxy.Forward(c.Request.Context(), route, params, body, token)
	if err != nil {
		e, ok := apierr.As(err)
		if !ok {
			e = apierr.Unexpected(err)
		}
		log.Warn().
			Err(err).
			Str("route", route.Name).
			Str("kind", e.Kind.String()).
			Int("status", e.Status).
			Msg("proxy call failed")
		writeError(c, e, errExtra)
		return
	}
	c.Data(out.Status, out.ContentType, out.Body)
}
