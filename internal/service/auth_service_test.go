package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-site-api/internal/models"
	"github.com/noah-isme/school-site-api/pkg/config"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
)

type stubVerifier struct {
	token *auth.Token
	err   error
}

func (v *stubVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	return v.token, v.err
}

func localAuth(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(nil, nil, zap.NewNop(), AuthConfig{
		Mode:              config.AuthModeLocal,
		AdminEmail:        "admin@piiss.edu",
		AdminPasswordHash: string(hash),
		AdminName:         "Office",
		AccessTokenSecret: "token-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "school-site-api",
	})
}

func TestLocalLoginIssuesValidToken(t *testing.T) {
	svc := localAuth(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "Admin@piiss.edu", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "admin", resp.Admin.ID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.AdminID)
	assert.Equal(t, "admin@piiss.edu", claims.Email)
	assert.Equal(t, "school-site-api", claims.Issuer)
}

func TestLocalLoginRejectsBadCredentials(t *testing.T) {
	svc := localAuth(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@piiss.edu", Password: "wrong"})
	requireAppError(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "other@piiss.edu", Password: "s3cret-pass"})
	requireAppError(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "x"})
	requireAppError(t, err, appErrors.ErrValidation)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	issuer := localAuth(t)
	resp, err := issuer.Login(context.Background(), models.LoginRequest{Email: "admin@piiss.edu", Password: "s3cret-pass"})
	require.NoError(t, err)

	other := NewAuthService(nil, nil, nil, AuthConfig{AccessTokenSecret: "different"})
	_, err = other.ValidateToken(resp.AccessToken)
	requireAppError(t, err, appErrors.ErrUnauthorized)
}

func TestFirebaseLogin(t *testing.T) {
	verifier := &stubVerifier{token: &auth.Token{UID: "uid-1", Claims: map[string]interface{}{"email": "admin@piiss.edu", "name": "Principal"}}}
	svc := NewAuthService(verifier, nil, zap.NewNop(), AuthConfig{
		Mode:              config.AuthModeFirebase,
		AdminEmail:        "admin@piiss.edu",
		AccessTokenSecret: "token-secret",
	})

	resp, err := svc.Login(context.Background(), models.LoginRequest{IDToken: "id-token"})
	require.NoError(t, err)
	assert.Equal(t, "uid-1", resp.Admin.ID)
	assert.Equal(t, "Principal", resp.Admin.Name)

	verifier.token.Claims["email"] = "student@piiss.edu"
	_, err = svc.Login(context.Background(), models.LoginRequest{IDToken: "id-token"})
	requireAppError(t, err, appErrors.ErrForbidden)

	verifier.err = errors.New("expired")
	_, err = svc.Login(context.Background(), models.LoginRequest{IDToken: "id-token"})
	requireAppError(t, err, appErrors.ErrUnauthorized)

	_, err = svc.Login(context.Background(), models.LoginRequest{})
	requireAppError(t, err, appErrors.ErrValidation)
}
