// Package bootstrap opens the backing services shared by the server and the
// seed command.
package bootstrap

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/pkg/config"
	"github.com/noah-isme/school-site-api/pkg/database"
	"github.com/noah-isme/school-site-api/pkg/firebaseapp"
	"github.com/noah-isme/school-site-api/pkg/store"
)

// Backend is an opened store plus what must be released on shutdown.
type Backend struct {
	Store    store.Store
	Firebase *firebase.App
	closers  []func() error
}

// Close releases connections held by the backend.
func (b *Backend) Close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NeedsFirebase reports whether cfg requires the Firebase Admin SDK.
func NeedsFirebase(cfg *config.Config) bool {
	return cfg.Store.Backend == config.StoreFirebase || cfg.Auth.Mode == config.AuthModeFirebase
}

// OpenBackend connects the configured store backend. The Firebase app is
// initialised whenever the store or admin auth depends on it.
func OpenBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	backend := &Backend{}

	if NeedsFirebase(cfg) {
		app, err := firebaseapp.New(ctx, cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("init firebase: %w", err)
		}
		backend.Firebase = app
	}

	switch cfg.Store.Backend {
	case config.StoreFirebase:
		client, err := backend.Firebase.Database(ctx)
		if err != nil {
			return nil, fmt.Errorf("open firebase database: %w", err)
		}
		backend.Store = store.NewFirebaseStore(client)
	case config.StorePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		backend.closers = append(backend.closers, db.Close)
		backend.Store = store.NewPostgresStore(db)
	case config.StoreMemory, "":
		logger.Warn("using in-memory store; data is lost on restart")
		backend.Store = store.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported STORE_BACKEND: %s", cfg.Store.Backend)
	}

	logger.Info("store ready", zap.String("backend", cfg.Store.Backend))
	return backend, nil
}
