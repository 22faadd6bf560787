package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/pkg/store"
)

type record struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Rank  int    `json:"rank,omitempty"`
}

type brokenStore struct {
	store.Store
}

func (brokenStore) Get(context.Context, string) (json.RawMessage, error) {
	return nil, errors.New("backend unavailable")
}

func newRepo() (*ContentRepository, *store.MemoryStore) {
	mem := store.NewMemoryStore()
	return NewContentRepository(mem, zap.NewNop()), mem
}

func TestCreateDropsIDAndFetchRestoresIt(t *testing.T) {
	repo, mem := newRepo()
	ctx := context.Background()

	id, err := repo.Create(ctx, "/news", record{ID: "ignored", Title: "Hello"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	raw, err := mem.Get(ctx, "/news/"+id+"/id")
	require.NoError(t, err)
	assert.Nil(t, raw)

	item := FetchItem[record](ctx, repo, "/news", id)
	require.NotNil(t, item)
	assert.Equal(t, id, item.ID)
	assert.Equal(t, "Hello", item.Title)
}

func TestFetchCollectionOrdersByKeyAndSkipsBadChildren(t *testing.T) {
	repo, mem := newRepo()
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, "/faq", map[string]interface{}{
		"b":   map[string]interface{}{"title": "Second"},
		"a":   map[string]interface{}{"title": "First"},
		"bad": "just a string",
		"c":   map[string]interface{}{"title": "Third", "rank": "not a number"},
	}))

	items := FetchCollection[record](ctx, repo, "/faq")
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
}

func TestFetchMissingPaths(t *testing.T) {
	repo, _ := newRepo()
	ctx := context.Background()

	assert.Empty(t, FetchCollection[record](ctx, repo, "/nothing"))
	assert.Nil(t, FetchItem[record](ctx, repo, "/nothing", "x"))
	assert.Nil(t, repo.Item(ctx, "/nothing", "bad.key"))
}

func TestChildrenSwallowsBackendErrors(t *testing.T) {
	repo := NewContentRepository(brokenStore{}, zap.NewNop())

	children := repo.Children(context.Background(), "/news")
	assert.NotNil(t, children)
	assert.Empty(t, children)
	assert.Nil(t, repo.Item(context.Background(), "/news", "a"))
}

func TestMergeLeavesOtherFields(t *testing.T) {
	repo, mem := newRepo()
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, "/events", "e1", record{Title: "Fair", Rank: 3}))

	require.NoError(t, repo.Merge(ctx, "/events", "e1", map[string]interface{}{"title": "Science Fair"}))

	item := FetchItem[record](ctx, repo, "/events", "e1")
	require.NotNil(t, item)
	assert.Equal(t, "Science Fair", item.Title)
	assert.Equal(t, 3, item.Rank)

	require.NoError(t, repo.Delete(ctx, "/events", "e1"))
	raw, err := mem.Get(ctx, "/events/e1")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestReplaceOverwritesCollection(t *testing.T) {
	repo, _ := newRepo()
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, "/teachers", "old", record{Title: "Old"}))

	err := repo.Replace(ctx, "/teachers", map[string]interface{}{
		"T1": map[string]interface{}{"title": "One"},
		"T2": record{Title: "Two"},
	})
	require.NoError(t, err)

	items := FetchCollection[record](ctx, repo, "/teachers")
	require.Len(t, items, 2)
	assert.Equal(t, "T1", items[0].ID)
	assert.Equal(t, "Two", items[1].Title)
}

func TestInvalidKeysAreRejected(t *testing.T) {
	repo, _ := newRepo()
	ctx := context.Background()

	assert.Error(t, repo.Put(ctx, "/teachers", "a/b$", record{Title: "x"}))
	assert.Error(t, repo.Replace(ctx, "/teachers", map[string]interface{}{"a.b": record{}}))
	assert.Error(t, repo.Merge(ctx, "/teachers", "", map[string]interface{}{"title": "x"}))
}

func TestDocumentRoundTrip(t *testing.T) {
	repo, _ := newRepo()
	ctx := context.Background()

	var doc map[string]string
	found, err := repo.Document(ctx, "/siteSettings", &doc)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.SetDocument(ctx, "/siteSettings", map[string]string{"siteName": "PIISS"}))
	found, err = repo.Document(ctx, "/siteSettings", &doc)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "PIISS", doc["siteName"])
}
