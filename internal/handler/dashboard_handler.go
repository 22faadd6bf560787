package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-site-api/internal/middleware"
	"github.com/noah-isme/school-site-api/internal/models"
	"github.com/noah-isme/school-site-api/internal/service"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
	"github.com/noah-isme/school-site-api/pkg/response"
)

type dashboardService interface {
	Admin(ctx context.Context) (*service.DashboardResponse, bool, error)
}

type auditLister interface {
	List(ctx context.Context, limit int) []models.AuditLog
}

// DashboardHandler wires the admin overview and audit trail.
type DashboardHandler struct {
	service dashboardService
	audit   auditLister
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService, audit auditLister) *DashboardHandler {
	return &DashboardHandler{service: service, audit: audit}
}

// Admin godoc
// @Summary Admin dashboard summary
// @Description Record counts per collection plus request and cache statistics.
// @Tags Admin Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/dashboard [get]
func (h *DashboardHandler) Admin(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	summary, cacheHit, err := h.service.Admin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, summary, meta)
}

// AuditLogs godoc
// @Summary Recent admin activity
// @Tags Admin Dashboard
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries (default 100)"
// @Success 200 {object} response.Envelope
// @Router /admin/audit-logs [get]
func (h *DashboardHandler) AuditLogs(c *gin.Context) {
	if h.audit == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}
	response.JSON(c, http.StatusOK, h.audit.List(c.Request.Context(), limit))
}
