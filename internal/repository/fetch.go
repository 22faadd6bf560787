package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// ChildReader is the read side needed by FetchCollection and FetchItem.
type ChildReader interface {
	Children(ctx context.Context, path string) map[string]json.RawMessage
	Item(ctx context.Context, path, id string) json.RawMessage
	Logger() *zap.Logger
}

// FetchCollection returns every child of path as T with its key as id,
// ordered by key. Children that do not decode into T are skipped.
func FetchCollection[T any](ctx context.Context, r ChildReader, path string) []T {
	children := r.Children(ctx, path)
	return DecodeChildren[T](r.Logger(), path, children)
}

// DecodeChildren converts raw children into records.
func DecodeChildren[T any](logger *zap.Logger, path string, children map[string]json.RawMessage) []T {
	keys := make([]string, 0, len(children))
	for key := range children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]T, 0, len(keys))
	for _, key := range keys {
		item, err := decodeWithID[T](key, children[key])
		if err != nil {
			if logger != nil {
				logger.Warn("skipping undecodable record", zap.String("path", path), zap.String("id", key), zap.Error(err))
			}
			continue
		}
		out = append(out, item)
	}
	return out
}

// FetchItem returns the child id of path, or nil when it is absent.
func FetchItem[T any](ctx context.Context, r ChildReader, path, id string) *T {
	raw := r.Item(ctx, path, id)
	if raw == nil {
		return nil
	}
	item, err := decodeWithID[T](id, raw)
	if err != nil {
		r.Logger().Warn("undecodable record", zap.String("path", path), zap.String("id", id), zap.Error(err))
		return nil
	}
	return &item
}

// decodeWithID decodes raw into T after setting its id field to key.
func decodeWithID[T any](key string, raw json.RawMessage) (T, error) {
	var zero T
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return zero, fmt.Errorf("record is not an object: %w", err)
	}
	if obj == nil {
		return zero, fmt.Errorf("record is null")
	}
	idRaw, err := json.Marshal(key)
	if err != nil {
		return zero, err
	}
	obj["id"] = idRaw

	merged, err := json.Marshal(obj)
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return zero, err
	}
	return out, nil
}
