// Package store provides a hierarchical JSON key-value store in the shape of
// a realtime database: every value lives at a slash separated path and
// writing a value replaces the whole subtree under that path.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Store is implemented by every backend.
type Store interface {
	// Get returns the JSON value at path, or nil when nothing is stored there.
	Get(ctx context.Context, path string) (json.RawMessage, error)
	// Set replaces the value at path. A nil value deletes it.
	Set(ctx context.Context, path string, value interface{}) error
	// Update writes every path in values atomically. Nil values delete.
	Update(ctx context.Context, values map[string]interface{}) error
	// Push stores value under a new, time ordered child key of path.
	Push(ctx context.Context, path string, value interface{}) (string, error)
	// Delete removes the value at path.
	Delete(ctx context.Context, path string) error
}

// GetInto decodes the value at path into dest and reports whether it existed.
func GetInto(ctx context.Context, s Store, path string, dest interface{}) (bool, error) {
	raw, err := s.Get(ctx, path)
	if err != nil {
		return false, err
	}
	if isNull(raw) {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return true, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

// Children returns the direct children of path keyed by child key. Array
// values are reported with their index as key.
func Children(ctx context.Context, s Store, path string) (map[string]json.RawMessage, error) {
	raw, err := s.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if isNull(raw) {
		return map[string]json.RawMessage{}, nil
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode children of %s: %w", path, err)
		}
		out := make(map[string]json.RawMessage, len(items))
		for i, item := range items {
			if !isNull(item) {
				out[fmt.Sprint(i)] = item
			}
		}
		return out, nil
	}

	var out map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("decode children of %s: %w", path, err)
	}
	for key, child := range out {
		if isNull(child) {
			delete(out, key)
		}
	}
	return out, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
