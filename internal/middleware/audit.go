package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-site-api/internal/models"
)

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, entry models.AuditLog)
}

// Audit records successful admin mutations. Reads are not recorded.
func Audit(recorder AuditRecorder, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if recorder == nil || c.Request.Method == "GET" || c.Writer.Status() >= 400 {
			return
		}

		actor := "anonymous"
		if claims := AdminFromContext(c); claims != nil {
			actor = claims.Email
		}

		recorder.Record(context.WithoutCancel(c.Request.Context()), models.AuditLog{
			Actor:     actor,
			Action:    actionFor(c.Request.Method),
			Resource:  resource,
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
			At:        time.Now().UTC(),
		})
	}
}

func actionFor(method string) string {
	switch method {
	case "POST":
		return "create"
	case "PUT", "PATCH":
		return "update"
	case "DELETE":
		return "delete"
	default:
		return method
	}
}
