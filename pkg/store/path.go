package store

import (
	"fmt"
	"strings"
)

const invalidKeyChars = ".#$[]"

// Split validates path and returns its segments. The root path ("", "/")
// yields no segments.
func Split(path string) ([]string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, nil
	}

	parts := strings.Split(trimmed, "/")
	for _, part := range parts {
		if err := ValidateKey(part); err != nil {
			return nil, fmt.Errorf("invalid path %q: %w", path, err)
		}
	}
	return parts, nil
}

// ValidateKey reports whether key can be used as a single path segment.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("empty key")
	}
	if strings.ContainsAny(key, invalidKeyChars) {
		return fmt.Errorf("key %q contains one of %q", key, invalidKeyChars)
	}
	return nil
}

// Join builds a slash separated path from segments.
func Join(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Trim(part, "/")
		if part != "" {
			cleaned = append(cleaned, part)
		}
	}
	return "/" + strings.Join(cleaned, "/")
}
