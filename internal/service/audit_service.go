package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/internal/models"
	"github.com/noah-isme/school-site-api/internal/repository"
)

type auditRepository interface {
	repository.ChildReader
	Create(ctx context.Context, path string, record interface{}) (string, error)
}

// AuditService records and lists admin activity.
type AuditService struct {
	repo   auditRepository
	logger *zap.Logger
}

// NewAuditService constructs an AuditService.
func NewAuditService(repo auditRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// Record appends an entry. Failures are logged and otherwise ignored.
func (s *AuditService) Record(ctx context.Context, entry models.AuditLog) {
	if _, err := s.repo.Create(ctx, models.CollectionAuditLogs.Path(), entry); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", entry.Action), zap.String("resource", entry.Resource), zap.Error(err))
	}
}

// List returns the newest entries first, at most limit when limit is positive.
func (s *AuditService) List(ctx context.Context, limit int) []models.AuditLog {
	logs := repository.FetchCollection[models.AuditLog](ctx, s.repo, models.CollectionAuditLogs.Path())
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].At.After(logs[j].At) })
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs
}
