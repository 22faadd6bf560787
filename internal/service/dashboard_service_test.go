package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDashboardCountsCollections(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "/teachers", map[string]interface{}{"T1": map[string]interface{}{"name": "A"}, "T2": map[string]interface{}{"name": "B"}})
	env.seed(t, "/students", map[string]interface{}{
		"1": map[string]interface{}{"name": "Zara", "results": map[string]interface{}{"r1": map[string]interface{}{"session": "x"}, "r2": map[string]interface{}{"session": "y"}}},
		"2": map[string]interface{}{"name": "Ravi"},
	})
	env.seed(t, "/admissionSubmissions", map[string]interface{}{
		"a": map[string]interface{}{"applicantName": "A"},
		"b": map[string]interface{}{"applicantName": "B", "status": "approved"},
		"c": map[string]interface{}{"applicantName": "C", "status": "pending"},
	})
	env.seed(t, "/faq/f1", map[string]interface{}{"question": "q", "answer": "a"})

	cache := NewCacheService(newMemoryCache(), nil, time.Minute, zap.NewNop(), true)
	svc := NewDashboardService(env.repo, cache, NewMetricsService(), time.Minute, zap.NewNop())

	dash, hit, err := svc.Admin(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, dash.Stats.Teachers)
	assert.Equal(t, 2, dash.Stats.Students)
	assert.Equal(t, 2, dash.Stats.Results)
	assert.Equal(t, 3, dash.Stats.Admissions)
	assert.Equal(t, 2, dash.Stats.PendingAdmissions)
	assert.Equal(t, 1, dash.Stats.FAQs)
	assert.Zero(t, dash.Stats.News)

	dash, hit, err = svc.Admin(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 2, dash.Stats.Teachers)
}
