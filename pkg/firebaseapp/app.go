// Package firebaseapp initialises the Firebase Admin SDK shared by the
// realtime database store and ID-token verification.
package firebaseapp

import (
	"context"
	"errors"
	"strings"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/noah-isme/school-site-api/pkg/config"
)

// New returns a Firebase app bound to the configured database.
func New(ctx context.Context, cfg config.StoreConfig) (*firebase.App, error) {
	if strings.TrimSpace(cfg.FirebaseCredentialsFile) == "" {
		return nil, errors.New("firebase credentials file is required")
	}

	conf := &firebase.Config{DatabaseURL: cfg.FirebaseDatabaseURL}
	return firebase.NewApp(ctx, conf, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
}
