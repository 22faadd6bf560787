package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/pkg/store"
)

// ContentRepository reads and writes site content in the hierarchical store.
// Reads of whole collections never fail: errors are logged and reported as
// an empty collection.
type ContentRepository struct {
	store  store.Store
	logger *zap.Logger
}

// NewContentRepository constructs the repository.
func NewContentRepository(s store.Store, logger *zap.Logger) *ContentRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentRepository{store: s, logger: logger}
}

// Logger returns the repository logger.
func (r *ContentRepository) Logger() *zap.Logger {
	return r.logger
}

// Children returns the raw children of path, or an empty map when the path
// is empty or cannot be read.
func (r *ContentRepository) Children(ctx context.Context, path string) map[string]json.RawMessage {
	children, err := store.Children(ctx, r.store, path)
	if err != nil {
		r.logger.Error("fetch collection failed", zap.String("path", path), zap.Error(err))
		return map[string]json.RawMessage{}
	}
	return children
}

// Item returns the raw record at path/id, or nil when absent or unreadable.
func (r *ContentRepository) Item(ctx context.Context, path, id string) json.RawMessage {
	if err := store.ValidateKey(id); err != nil {
		r.logger.Debug("invalid item id", zap.String("path", path), zap.String("id", id), zap.Error(err))
		return nil
	}
	raw, err := r.store.Get(ctx, store.Join(path, id))
	if err != nil {
		r.logger.Error("fetch item failed", zap.String("path", path), zap.String("id", id), zap.Error(err))
		return nil
	}
	return raw
}

// Document decodes the singleton at path into dest and reports whether it exists.
func (r *ContentRepository) Document(ctx context.Context, path string, dest interface{}) (bool, error) {
	return store.GetInto(ctx, r.store, path, dest)
}

// Create stores record under a new push key and returns the key.
func (r *ContentRepository) Create(ctx context.Context, path string, record interface{}) (string, error) {
	doc, err := encodeRecord(record)
	if err != nil {
		return "", err
	}
	return r.store.Push(ctx, path, doc)
}

// Put replaces the record at path/id.
func (r *ContentRepository) Put(ctx context.Context, path, id string, record interface{}) error {
	if err := store.ValidateKey(id); err != nil {
		return err
	}
	doc, err := encodeRecord(record)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, store.Join(path, id), doc)
}

// SetDocument replaces a singleton document.
func (r *ContentRepository) SetDocument(ctx context.Context, path string, doc interface{}) error {
	return r.store.Set(ctx, path, doc)
}

// Merge writes the given fields onto the record at path/id, leaving other
// fields untouched.
func (r *ContentRepository) Merge(ctx context.Context, path, id string, fields map[string]interface{}) error {
	if err := store.ValidateKey(id); err != nil {
		return err
	}
	values := make(map[string]interface{}, len(fields))
	for field, value := range fields {
		values[store.Join(path, id, field)] = value
	}
	return r.store.Update(ctx, values)
}

// Delete removes the record at path/id.
func (r *ContentRepository) Delete(ctx context.Context, path, id string) error {
	if err := store.ValidateKey(id); err != nil {
		return err
	}
	return r.store.Delete(ctx, store.Join(path, id))
}

// Replace overwrites the whole collection at path in one write.
func (r *ContentRepository) Replace(ctx context.Context, path string, records map[string]interface{}) error {
	docs := make(map[string]interface{}, len(records))
	for id, record := range records {
		if err := store.ValidateKey(id); err != nil {
			return err
		}
		doc, err := encodeRecord(record)
		if err != nil {
			return fmt.Errorf("record %s: %w", id, err)
		}
		docs[id] = doc
	}
	return r.store.Set(ctx, path, docs)
}

// Update applies a multi-path write atomically.
func (r *ContentRepository) Update(ctx context.Context, values map[string]interface{}) error {
	return r.store.Update(ctx, values)
}

// NewKey returns a fresh record key.
func (r *ContentRepository) NewKey() (string, error) {
	return store.NewPushKey()
}

// encodeRecord converts record to a generic object without its id field;
// the key is the id.
func encodeRecord(record interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("record must be an object: %w", err)
	}
	delete(doc, "id")
	return doc, nil
}
