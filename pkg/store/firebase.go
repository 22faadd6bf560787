package store

import (
	"context"
	"encoding/json"
	"fmt"

	"firebase.google.com/go/v4/db"
)

// FirebaseStore talks to a Firebase Realtime Database.
type FirebaseStore struct {
	client *db.Client
}

// NewFirebaseStore wraps a realtime database client.
func NewFirebaseStore(client *db.Client) *FirebaseStore {
	return &FirebaseStore{client: client}
}

func (f *FirebaseStore) ref(path string) (*db.Ref, error) {
	segs, err := Split(path)
	if err != nil {
		return nil, err
	}
	return f.client.NewRef(Join(segs...)), nil
}

// Get implements Store.
func (f *FirebaseStore) Get(ctx context.Context, path string) (json.RawMessage, error) {
	ref, err := f.ref(path)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := ref.Get(ctx, &raw); err != nil {
		return nil, fmt.Errorf("get %s: %w", ref.Path, err)
	}
	if isNull(raw) {
		return nil, nil
	}
	return raw, nil
}

// Set implements Store.
func (f *FirebaseStore) Set(ctx context.Context, path string, value interface{}) error {
	ref, err := f.ref(path)
	if err != nil {
		return err
	}
	if value == nil {
		return f.Delete(ctx, path)
	}
	if err := ref.Set(ctx, value); err != nil {
		return fmt.Errorf("set %s: %w", ref.Path, err)
	}
	return nil
}

// Update implements Store as a single multi-location update at the root.
func (f *FirebaseStore) Update(ctx context.Context, values map[string]interface{}) error {
	if len(values) == 0 {
		return nil
	}
	payload := make(map[string]interface{}, len(values))
	for path, value := range values {
		segs, err := Split(path)
		if err != nil {
			return err
		}
		if len(segs) == 0 {
			return ErrRootWrite
		}
		payload[Join(segs...)] = value
	}
	if err := f.client.NewRef("/").Update(ctx, payload); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return nil
}

// Push implements Store.
func (f *FirebaseStore) Push(ctx context.Context, path string, value interface{}) (string, error) {
	ref, err := f.ref(path)
	if err != nil {
		return "", err
	}
	child, err := ref.Push(ctx, value)
	if err != nil {
		return "", fmt.Errorf("push %s: %w", ref.Path, err)
	}
	return child.Key, nil
}

// Delete implements Store.
func (f *FirebaseStore) Delete(ctx context.Context, path string) error {
	ref, err := f.ref(path)
	if err != nil {
		return err
	}
	if err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", ref.Path, err)
	}
	return nil
}
