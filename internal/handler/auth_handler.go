package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-site-api/internal/middleware"
	"github.com/noah-isme/school-site-api/internal/models"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
	"github.com/noah-isme/school-site-api/pkg/response"
)

type authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service      authenticator
	secureCookie bool
}

// NewAuthHandler creates a new handler. secureCookie marks the session
// cookie Secure and should be set outside development.
func NewAuthHandler(svc authenticator, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: svc, secureCookie: secureCookie}
}

// Login godoc
// @Summary Sign in as administrator
// @Description Local mode checks email and password. Firebase mode exchanges an ID token.
// @Tags Authentication
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindPayload(c, &req, "invalid login payload") {
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, res.AccessToken, int(res.ExpiresIn), "/", "", h.secureCookie, true)
	response.JSON(c, http.StatusOK, res)
}

// Logout godoc
// @Summary Sign out
// @Description Clears the session cookie.
// @Tags Authentication
// @Security BearerAuth
// @Success 204
// @Router /admin/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	response.NoContent(c)
}

// Me godoc
// @Summary Get current administrator
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.AdminFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, models.AdminInfo{
		ID:    claims.AdminID,
		Email: claims.Email,
		Name:  claims.Name,
	})
}
