package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
)

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	raw, ok := c.items[key]
	c.mu.Unlock()
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix, glob := strings.CutSuffix(pattern, "*")
	for key := range c.items {
		if key == pattern || (glob && strings.HasPrefix(key, prefix)) {
			delete(c.items, key)
		}
	}
	return nil
}

type failingCache struct{}

func (failingCache) Get(context.Context, string, interface{}) error {
	return errors.New("connection refused")
}

func (failingCache) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("connection refused")
}

func (failingCache) DeleteByPattern(context.Context, string) error {
	return errors.New("connection refused")
}

func TestCacheServiceDisabled(t *testing.T) {
	cache := NewCacheService(newMemoryCache(), nil, time.Minute, zap.NewNop(), false)
	cache.Remember(context.Background(), "k", "v", 0)

	var out string
	assert.False(t, cache.Lookup(context.Background(), "k", &out))

	var nilCache *CacheService
	assert.False(t, nilCache.Lookup(context.Background(), "k", &out))
	nilCache.Forget(context.Background(), "/news")
}

func TestCacheServiceForgetDropsNestedSnapshotsAndDashboard(t *testing.T) {
	repo := newMemoryCache()
	cache := NewCacheService(repo, NewMetricsService(), time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	cache.Remember(ctx, snapshotKey("/students"), []string{"a"}, 0)
	cache.Remember(ctx, snapshotKey("/students/s1/results"), []string{"r"}, 0)
	cache.Remember(ctx, snapshotKey("/news"), []string{"n"}, 0)
	cache.Remember(ctx, dashboardCacheKey, map[string]int{"students": 1}, 0)

	var out []string
	require.True(t, cache.Lookup(ctx, snapshotKey("/students"), &out))
	assert.Equal(t, []string{"a"}, out)

	cache.Forget(ctx, "/students/")

	assert.False(t, cache.Lookup(ctx, snapshotKey("/students"), &out))
	assert.False(t, cache.Lookup(ctx, snapshotKey("/students/s1/results"), &out))
	var counts map[string]int
	assert.False(t, cache.Lookup(ctx, dashboardCacheKey, &counts))
	assert.True(t, cache.Lookup(ctx, snapshotKey("/news"), &out))
}

func TestCacheServiceFailuresReadAsMiss(t *testing.T) {
	cache := NewCacheService(failingCache{}, NewMetricsService(), time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	cache.Remember(ctx, "k", "v", 0)
	var out string
	assert.False(t, cache.Lookup(ctx, "k", &out))
	cache.Forget(ctx, "/news")
}
