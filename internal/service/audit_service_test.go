package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/internal/models"
)

func TestAuditRecordAndList(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuditService(env.repo, zap.NewNop())
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, action := range []string{"first", "second", "third"} {
		svc.Record(ctx, models.AuditLog{Actor: "admin", Action: action, Resource: "news", At: base.Add(time.Duration(i) * time.Minute)})
	}

	logs := svc.List(ctx, 2)
	require.Len(t, logs, 2)
	assert.Equal(t, "third", logs[0].Action)
	assert.Equal(t, "second", logs[1].Action)
	assert.NotEmpty(t, logs[0].ID)

	assert.Len(t, svc.List(ctx, 0), 3)
}
