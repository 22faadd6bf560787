package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-site-api/internal/service"
)

type feed interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
	ClientCount() int
}

// MetricsHandler exposes observability endpoints and the admin change feed.
type MetricsHandler struct {
	metrics *service.MetricsService
	feed    feed
}

// NewMetricsHandler constructs a metrics handler. feed may be nil.
func NewMetricsHandler(metrics *service.MetricsService, feed feed) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, feed: feed}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for readiness/liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if h.feed != nil {
		body["feedClients"] = h.feed.ClientCount()
	}
	c.JSON(http.StatusOK, body)
}

// Feed godoc
// @Summary Change feed
// @Description Upgrades to a WebSocket streaming {collection, action, id, at} after every committed mutation. Browsers pass the session in the token query parameter.
// @Tags Admin Dashboard
// @Security BearerAuth
// @Param token query string false "Session token"
// @Success 101
// @Router /admin/feed [get]
func (h *MetricsHandler) Feed(c *gin.Context) {
	if h.feed == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.feed.ServeWS(c.Writer, c.Request)
}
