package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidToken covers malformed tokens and bad signatures.
	ErrInvalidToken = errors.New("invalid download token")
	// ErrTokenExpired is returned for well-formed tokens past their expiry.
	ErrTokenExpired = errors.New("download token expired")
)

// SignedLink is the payload carried by a download token.
type SignedLink struct {
	Subject   string    `json:"sub"`
	Path      string    `json:"path"`
	ExpiresAt time.Time `json:"exp"`
}

// SignedURLSigner issues short-lived HMAC tokens granting access to one
// stored file, such as an admission document.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner builds a signer. A non-positive ttl defaults to 30 minutes.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Generate returns a token for subject and the stored path.
func (s *SignedURLSigner) Generate(subject, path string) (string, time.Time, error) {
	if subject == "" || path == "" {
		return "", time.Time{}, fmt.Errorf("subject and path required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}

	link := SignedLink{Subject: subject, Path: path, ExpiresAt: s.now().Add(s.ttl).UTC().Truncate(time.Second)}
	payload, err := json.Marshal(link)
	if err != nil {
		return "", time.Time{}, err
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + s.sign(encoded), link.ExpiresAt, nil
}

// Parse verifies token and returns its payload.
func (s *SignedURLSigner) Parse(token string) (SignedLink, error) {
	encoded, signature, ok := strings.Cut(token, ".")
	if !ok || encoded == "" || signature == "" {
		return SignedLink{}, ErrInvalidToken
	}
	if !hmac.Equal([]byte(s.sign(encoded)), []byte(signature)) {
		return SignedLink{}, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return SignedLink{}, ErrInvalidToken
	}
	var link SignedLink
	if err := json.Unmarshal(payload, &link); err != nil {
		return SignedLink{}, ErrInvalidToken
	}
	if s.now().After(link.ExpiresAt) {
		return link, ErrTokenExpired
	}
	return link, nil
}

func (s *SignedURLSigner) sign(encoded string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
