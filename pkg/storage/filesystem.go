package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidPath is returned for names escaping the storage root.
var ErrInvalidPath = errors.New("invalid storage path")

// LocalStorage keeps uploaded media on disk under a base directory and maps
// stored names to public URLs.
type LocalStorage struct {
	baseDir       string
	publicBaseURL string
}

// NewLocalStorage ensures the base directory exists.
func NewLocalStorage(baseDir, publicBaseURL string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./media"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// Save writes data to name, a slash separated path relative to the base dir.
func (s *LocalStorage) Save(name string, data []byte) (string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare media directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return name, nil
}

// Open returns a read-only handle for name.
func (s *LocalStorage) Open(name string) (*os.File, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open media file: %w", err)
	}
	return file, nil
}

// Delete removes name if present.
func (s *LocalStorage) Delete(name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete media file: %w", err)
	}
	return nil
}

// PublicURL returns the URL under which name is served.
func (s *LocalStorage) PublicURL(name string) string {
	return s.publicBaseURL + "/" + strings.TrimLeft(filepath.ToSlash(name), "/")
}

func (s *LocalStorage) resolve(name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(strings.TrimLeft(name, "/")))
	if cleaned == "." || filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}
