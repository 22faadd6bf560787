package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds admin credentials. IDToken is used instead of the
// password when sessions are backed by Firebase Authentication.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"omitempty,email"`
	Password string `json:"password" form:"password" validate:"omitempty,max=256"`
	IDToken  string `json:"idToken" form:"idToken"`
}

// LoginResponse returns the issued session token.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	Admin       AdminInfo `json:"admin"`
	IssuedAt    time.Time `json:"issued_at"`
}

// AdminInfo describes the signed-in administrator.
type AdminInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// JWTClaims is the admin session token payload.
type JWTClaims struct {
	AdminID string `json:"admin_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	jwt.RegisteredClaims
}
