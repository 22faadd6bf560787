package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-site-api/internal/models"
	"github.com/noah-isme/school-site-api/pkg/config"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
	"github.com/noah-isme/school-site-api/pkg/validation"
)

const localAdminID = "admin"

// IDTokenVerifier verifies Firebase Authentication ID tokens.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthConfig defines configuration for admin sessions.
type AuthConfig struct {
	Mode              string
	AdminEmail        string
	AdminPasswordHash string
	AdminName         string
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService signs administrators in and validates their sessions.
type AuthService struct {
	verifier  IDTokenVerifier
	validator *validation.Validator
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService. verifier is only used in Firebase mode.
func NewAuthService(verifier IDTokenVerifier, v *validation.Validator, logger *zap.Logger, cfg AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if v == nil {
		v = validation.New()
	}
	if cfg.AccessTokenExpiry <= 0 {
		cfg.AccessTokenExpiry = 12 * time.Hour
	}
	if cfg.Mode == "" {
		cfg.Mode = config.AuthModeLocal
	}
	return &AuthService{verifier: verifier, validator: v, logger: logger, config: cfg, now: time.Now}
}

// Login authenticates an administrator and issues a session token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if issues, err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	} else if len(issues) > 0 {
		return nil, appErrors.WithIssues("invalid login payload", issues)
	}

	var admin *models.AdminInfo
	var err error
	if s.config.Mode == config.AuthModeFirebase {
		admin, err = s.firebaseAdmin(ctx, req.IDToken)
	} else {
		admin, err = s.localAdmin(req.Email, req.Password)
	}
	if err != nil {
		return nil, err
	}

	token, expiresAt, issuedAt, err := s.generateAccessToken(admin)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}
	s.logger.Info("admin signed in", zap.String("admin_id", admin.ID), zap.String("mode", s.config.Mode))

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(expiresAt.Sub(issuedAt).Seconds()),
		Admin:       *admin,
		IssuedAt:    issuedAt,
	}, nil
}

func (s *AuthService) localAdmin(email, password string) (*models.AdminInfo, error) {
	if email == "" || password == "" {
		return nil, appErrors.WithIssues("invalid login payload", []string{"email: email is a required field", "password: password is a required field"})
	}
	if s.config.AdminEmail == "" || s.config.AdminPasswordHash == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "admin account is not configured")
	}
	if !strings.EqualFold(strings.TrimSpace(email), s.config.AdminEmail) {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.config.AdminPasswordHash), []byte(password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	return &models.AdminInfo{ID: localAdminID, Email: s.config.AdminEmail, Name: s.config.AdminName}, nil
}

func (s *AuthService) firebaseAdmin(ctx context.Context, idToken string) (*models.AdminInfo, error) {
	if idToken == "" {
		return nil, appErrors.WithIssues("invalid login payload", []string{"idToken: idToken is a required field"})
	}
	if s.verifier == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "firebase authentication is not configured")
	}
	token, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid id token")
	}
	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	if s.config.AdminEmail != "" && !strings.EqualFold(email, s.config.AdminEmail) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "account is not an administrator")
	}
	if name == "" {
		name = s.config.AdminName
	}
	return &models.AdminInfo{ID: token.UID, Email: email, Name: name}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) generateAccessToken(admin *models.AdminInfo) (string, time.Time, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	claims := &models.JWTClaims{
		AdminID: admin.ID,
		Email:   admin.Email,
		Name:    admin.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   admin.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	return signed, expiresAt, issuedAt, nil
}
