package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/internal/repository"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
	"github.com/noah-isme/school-site-api/pkg/mailer"
	"github.com/noah-isme/school-site-api/pkg/realtime"
	"github.com/noah-isme/school-site-api/pkg/store"
)

var fixedNow = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (p *recordingPublisher) Publish(event realtime.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// failingStore serves reads from the embedded store and fails every write.
type failingStore struct {
	store.Store
	err error
}

func (f *failingStore) Set(context.Context, string, interface{}) error { return f.err }
func (f *failingStore) Update(context.Context, map[string]interface{}) error {
	return f.err
}
func (f *failingStore) Push(context.Context, string, interface{}) (string, error) {
	return "", f.err
}
func (f *failingStore) Delete(context.Context, string) error { return f.err }

type fakeImages struct {
	url   string
	err   error
	calls int
}

func (f *fakeImages) StoreImage(ctx context.Context, folder string, upload *Upload) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

// memoryCache is an in-process CacheRepository.
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

type testEnv struct {
	store     *store.MemoryStore
	repo      *repository.ContentRepository
	writer    *ContentWriter
	publisher *recordingPublisher
	images    *fakeImages
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mem := store.NewMemoryStore()
	return newTestEnvWithStore(t, mem, mem)
}

func newTestEnvWithStore(t *testing.T, mem *store.MemoryStore, backend store.Store) *testEnv {
	t.Helper()
	repo := repository.NewContentRepository(backend, zap.NewNop())
	publisher := &recordingPublisher{}
	images := &fakeImages{url: "/media/uploaded.webp"}
	writer := NewContentWriter(repo, images, nil, publisher, NewMetricsService(), nil, zap.NewNop())
	writer.now = func() time.Time { return fixedNow }
	return &testEnv{store: mem, repo: repo, writer: writer, publisher: publisher, images: images}
}

func (e *testEnv) seed(t *testing.T, path string, value interface{}) {
	t.Helper()
	require.NoError(t, e.store.Set(context.Background(), path, value))
}

func (e *testEnv) exists(t *testing.T, path string) bool {
	t.Helper()
	raw, err := e.store.Get(context.Background(), path)
	require.NoError(t, err)
	return raw != nil
}

func requireAppError(t *testing.T, err error, target *appErrors.Error) *appErrors.Error {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, target), "expected %s, got %v", target.Code, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	return appErr
}
