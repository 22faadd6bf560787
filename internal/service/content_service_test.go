package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/internal/models"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
)

func seedSite(t *testing.T, env *testEnv) {
	t.Helper()
	env.seed(t, "/teachers", map[string]interface{}{
		"T1": map[string]interface{}{"name": "Asha", "contact": "555", "salary": "42000"},
	})
	env.seed(t, "/news", map[string]interface{}{
		"a": map[string]interface{}{"title": "Older", "date": "2023-01-10"},
		"b": map[string]interface{}{"title": "Newer", "date": "2024-03-02"},
	})
	env.seed(t, "/events", map[string]interface{}{
		"a": map[string]interface{}{"title": "Later", "date": "2024-12-01"},
		"b": map[string]interface{}{"title": "Sooner", "date": "2024-06-01"},
	})
	env.seed(t, "/students/PIISS-101", map[string]interface{}{
		"name":       "Zara",
		"rollNumber": "PIISS-101",
		"class":      "9",
		"results": map[string]interface{}{
			"r1": map[string]interface{}{"session": "2023-24", "subjects": map[string]interface{}{"Math": "91"}},
			"r2": map[string]interface{}{"session": "2022-23", "subjects": map[string]interface{}{"Math": 80}},
		},
	})
}

func TestContentTeachersStripPrivateFields(t *testing.T) {
	env := newTestEnv(t)
	seedSite(t, env)
	svc := NewContentService(env.repo, nil, zap.NewNop())

	public, _ := svc.Teachers(context.Background())
	require.Len(t, public, 1)
	assert.Equal(t, "T1", public[0].ID)
	assert.Empty(t, public[0].Salary)
	assert.Empty(t, public[0].Contact)

	admin, _ := svc.AdminTeachers(context.Background())
	assert.Equal(t, "42000", admin[0].Salary)

	teacher, err := svc.Teacher(context.Background(), "T1", false)
	require.NoError(t, err)
	assert.Empty(t, teacher.Salary)

	_, err = svc.Teacher(context.Background(), "nope", false)
	requireAppError(t, err, appErrors.ErrNotFound)
}

func TestContentOrdering(t *testing.T) {
	env := newTestEnv(t)
	seedSite(t, env)
	svc := NewContentService(env.repo, nil, zap.NewNop())

	news, _ := svc.News(context.Background())
	require.Len(t, news, 2)
	assert.Equal(t, "Newer", news[0].Title)

	events, _ := svc.Events(context.Background())
	require.Len(t, events, 2)
	assert.Equal(t, "Sooner", events[0].Title)
}

func TestContentEmptyCollections(t *testing.T) {
	env := newTestEnv(t)
	svc := NewContentService(env.repo, nil, zap.NewNop())

	faqs, hit := svc.FAQs(context.Background())
	assert.Empty(t, faqs)
	assert.False(t, hit)

	settings, _, err := svc.SiteSettings(context.Background())
	require.NoError(t, err)
	assert.Nil(t, settings)

	meta, err := svc.PublicResultsMetadata(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(meta))
}

func TestLookupResults(t *testing.T) {
	env := newTestEnv(t)
	seedSite(t, env)
	svc := NewContentService(env.repo, nil, zap.NewNop())

	lookup, err := svc.LookupResults(context.Background(), " piiss-101 ", "")
	require.NoError(t, err)
	assert.Equal(t, "Zara", lookup.Student.Name)
	assert.Equal(t, []string{"2022-23", "2023-24"}, lookup.Sessions)
	assert.Nil(t, lookup.Report)

	lookup, err = svc.LookupResults(context.Background(), "PIISS-101", "2023-24")
	require.NoError(t, err)
	require.NotNil(t, lookup.Report)
	assert.Equal(t, "r1", lookup.Report.ID)
	assert.Equal(t, 91.0, lookup.Report.Subjects["Math"].Float())

	_, err = svc.LookupResults(context.Background(), "PIISS-101", "2019-20")
	appErr := requireAppError(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "No report card found for this session.", appErr.Message)

	_, err = svc.LookupResults(context.Background(), "nobody", "")
	appErr = requireAppError(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "No results found for this roll number.", appErr.Message)
}

func TestReportCard(t *testing.T) {
	env := newTestEnv(t)
	seedSite(t, env)
	svc := NewContentService(env.repo, nil, zap.NewNop())

	card, student, err := svc.ReportCard(context.Background(), "PIISS-101", "r2")
	require.NoError(t, err)
	assert.Equal(t, "r2", card.ID)
	assert.Equal(t, "Zara", student.Name)

	_, _, err = svc.ReportCard(context.Background(), "PIISS-101", "r9")
	requireAppError(t, err, appErrors.ErrNotFound)
}

func TestContentReadsThroughCache(t *testing.T) {
	env := newTestEnv(t)
	seedSite(t, env)
	cache := NewCacheService(newMemoryCache(), nil, time.Minute, zap.NewNop(), true)
	env.writer.cache = cache
	svc := NewContentService(env.repo, cache, zap.NewNop())

	_, hit := svc.News(context.Background())
	assert.False(t, hit)
	news, hit := svc.News(context.Background())
	assert.True(t, hit)
	assert.Len(t, news, 2)

	// a committed write drops the cached snapshot
	_, err := NewNewsService(env.writer).Delete(context.Background(), "a")
	require.NoError(t, err)
	news, hit = svc.News(context.Background())
	assert.False(t, hit)
	assert.Len(t, news, 1)
}

func TestSiteSettingsCached(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, models.PathSiteSettings, map[string]interface{}{"siteName": "PIISS", "tagline": "Learn"})
	cache := NewCacheService(newMemoryCache(), nil, time.Minute, zap.NewNop(), true)
	svc := NewContentService(env.repo, cache, zap.NewNop())

	settings, hit, err := svc.SiteSettings(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "PIISS", settings.SiteName)

	settings, hit, err = svc.SiteSettings(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Learn", settings.Tagline)
}
