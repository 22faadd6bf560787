package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/school-site-api/internal/models"
	"github.com/noah-isme/school-site-api/internal/service"
)

type fakeDashboardSrv struct {
	resp *service.DashboardResponse
	hit  bool
	err  error
}

func (f *fakeDashboardSrv) Admin(context.Context) (*service.DashboardResponse, bool, error) {
	return f.resp, f.hit, f.err
}

type fakeAuditLister struct {
	logs      []models.AuditLog
	lastLimit int
}

func (f *fakeAuditLister) List(_ context.Context, limit int) []models.AuditLog {
	f.lastLimit = limit
	return f.logs
}

func TestDashboardHandlerAdminSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{
		resp: &service.DashboardResponse{Stats: models.DashboardStats{Teachers: 4, PendingAdmissions: 2}, GeneratedAt: time.Now()},
		hit:  true,
	}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)

	handler.Admin(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	stats, _ := envelope.Data["stats"].(map[string]interface{})
	assert.EqualValues(t, 4, stats["teachers"])
	assert.EqualValues(t, 2, stats["pendingAdmissions"])
}

func TestDashboardHandlerAdminError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{err: errors.New("boom")}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)

	handler.Admin(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDashboardHandlerAuditLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	audit := &fakeAuditLister{logs: []models.AuditLog{{Actor: "admin@piiss.test", Action: "create"}}}
	handler := NewDashboardHandler(nil, audit)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/audit-logs", nil)
	handler.AuditLogs(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, audit.lastLimit)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/audit-logs?limit=5", nil)
	handler.AuditLogs(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, audit.lastLimit)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/audit-logs?limit=abc", nil)
	handler.AuditLogs(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type responseEnvelope struct {
	Data map[string]interface{} `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}
