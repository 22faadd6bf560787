package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-site-api/internal/models"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
	"github.com/noah-isme/school-site-api/pkg/response"
)

const (
	// ContextAdminKey is the gin context key storing the session claims.
	ContextAdminKey = "currentAdmin"
	// SessionCookie carries the admin session token for browser clients.
	SessionCookie = "admin_session"
)

// TokenValidator validates admin session tokens.
type TokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// AdminAuth requires a valid admin session. The token is read from the
// Authorization header, the session cookie or, for WebSocket upgrades, the
// token query parameter. Browsers asking for HTML are redirected to loginPath;
// everything else receives 401.
func AdminAuth(validator TokenValidator, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			deny(c, loginPath, appErrors.ErrUnauthorized)
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			deny(c, loginPath, err)
			return
		}

		c.Set(ContextAdminKey, claims)
		c.Next()
	}
}

// SessionToken extracts the session token from the request, if any.
func SessionToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	return c.Query("token")
}

// AdminFromContext returns the claims set by AdminAuth.
func AdminFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(ContextAdminKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}

func deny(c *gin.Context, loginPath string, err error) {
	if loginPath != "" && wantsHTML(c.Request) {
		c.Redirect(http.StatusFound, loginPath)
		c.Abort()
		return
	}
	response.Error(c, err)
	c.Abort()
}

func wantsHTML(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}
