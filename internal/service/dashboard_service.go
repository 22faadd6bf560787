package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/internal/models"
)

// DashboardResponse is the admin landing page payload.
type DashboardResponse struct {
	Stats       models.DashboardStats `json:"stats"`
	System      MetricsSnapshot       `json:"system"`
	GeneratedAt time.Time             `json:"generatedAt"`
}

// DashboardService counts records per collection for the admin overview.
type DashboardService struct {
	repo     ContentReader
	cache    *CacheService
	metrics  *MetricsService
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewDashboardService constructs a DashboardService. Counts are cached for cacheTTL.
func NewDashboardService(repo ContentReader, cache *CacheService, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &DashboardService{repo: repo, cache: cache, metrics: metrics, cacheTTL: cacheTTL, logger: logger, now: time.Now}
}

// Admin returns the dashboard summary and indicates cache utilisation.
func (s *DashboardService) Admin(ctx context.Context) (*DashboardResponse, bool, error) {
	var cached models.DashboardStats
	if s.cache.Lookup(ctx, dashboardCacheKey, &cached) {
		return s.respond(cached), true, nil
	}

	stats := s.composeStats(ctx)
	s.cache.Remember(ctx, dashboardCacheKey, stats, s.cacheTTL)
	return s.respond(stats), false, nil
}

func (s *DashboardService) respond(stats models.DashboardStats) *DashboardResponse {
	return &DashboardResponse{Stats: stats, System: s.metrics.Snapshot(), GeneratedAt: s.now().UTC()}
}

func (s *DashboardService) composeStats(ctx context.Context) models.DashboardStats {
	count := func(c models.Collection) int {
		return len(s.repo.Children(ctx, c.Path()))
	}

	stats := models.DashboardStats{
		Teachers:      count(models.CollectionTeachers),
		News:          count(models.CollectionNews),
		Events:        count(models.CollectionEvents),
		Gallery:       count(models.CollectionGallery),
		Announcements: count(models.CollectionAnnouncements),
		Toppers:       count(models.CollectionToppers),
		Testimonials:  count(models.CollectionTestimonials),
		FAQs:          count(models.CollectionFAQ),
		Contacts:      count(models.CollectionContacts),
	}

	students := s.repo.Children(ctx, models.CollectionStudents.Path())
	stats.Students = len(students)
	for _, raw := range students {
		var student struct {
			Results map[string]json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(raw, &student); err == nil {
			stats.Results += len(student.Results)
		}
	}

	admissions := s.repo.Children(ctx, models.CollectionAdmissions.Path())
	stats.Admissions = len(admissions)
	for _, raw := range admissions {
		var submission models.AdmissionSubmission
		if err := json.Unmarshal(raw, &submission); err == nil && submission.EffectiveStatus() == models.AdmissionPending {
			stats.PendingAdmissions++
		}
	}
	return stats
}
