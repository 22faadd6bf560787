package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-site-api/internal/middleware"
	"github.com/noah-isme/school-site-api/internal/models"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
)

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie
		}
	}
	return nil
}

func TestAuthHandlerLoginSetsSessionCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(stubLogin{res: &models.LoginResponse{
		AccessToken: "signed.jwt.token",
		ExpiresIn:   3600,
		Admin:       models.AdminInfo{ID: "admin", Email: "admin@piiss.test"},
	}}, true)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewBufferString(`{"email":"admin@piiss.test","password":"secret"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Login(c)

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "signed.jwt.token", cookie.Value)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
}

func TestAuthHandlerLoginRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(stubLogin{err: appErrors.ErrInvalidCredentials}, false)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewBufferString(`{"email":"admin@piiss.test","password":"wrong"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, sessionCookie(rec))
}

func TestAuthHandlerLogoutClearsCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(stubLogin{}, false)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/logout", nil)

	handler.Logout(c)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestAuthHandlerMeWithoutSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(stubLogin{}, false)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/me", nil)

	handler.Me(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
