package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// MemoryStore keeps the whole tree in process. It backs local development,
// the seed command and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	root interface{}
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, path string) (json.RawMessage, error) {
	segs, err := Split(path)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	node, ok := lookup(m.root, segs)
	if !ok {
		return nil, nil
	}
	return encodeNode(node)
}

// Set implements Store.
func (m *MemoryStore) Set(ctx context.Context, path string, value interface{}) error {
	return m.Update(ctx, map[string]interface{}{path: value})
}

// Update implements Store. Values are validated and encoded before the tree
// is touched so a bad entry leaves the store unchanged.
func (m *MemoryStore) Update(ctx context.Context, values map[string]interface{}) error {
	type write struct {
		segs []string
		node interface{}
	}

	paths := make([]string, 0, len(values))
	for path := range values {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	writes := make([]write, 0, len(paths))
	for _, path := range paths {
		segs, err := Split(path)
		if err != nil {
			return err
		}
		node, err := toNode(values[path])
		if err != nil {
			return err
		}
		writes = append(writes, write{segs: segs, node: node})
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range writes {
		m.root = assign(m.root, w.segs, w.node)
	}
	return nil
}

// Push implements Store.
func (m *MemoryStore) Push(ctx context.Context, path string, value interface{}) (string, error) {
	key, err := NewPushKey()
	if err != nil {
		return "", err
	}
	if err := m.Set(ctx, Join(path, key), value); err != nil {
		return "", err
	}
	return key, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, path string) error {
	return m.Set(ctx, path, nil)
}
