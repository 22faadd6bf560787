package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderKey is the header carrying the request id in both directions.
	HeaderKey  = "X-Request-ID"
	contextKey = "request_id"
)

// Middleware reuses an inbound X-Request-ID or mints a new one.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(HeaderKey)
		if reqID == "" || len(reqID) > 128 {
			reqID = uuid.NewString()
		}

		c.Set(contextKey, reqID)
		c.Writer.Header().Set(HeaderKey, reqID)
		c.Next()
	}
}

// Value returns the request id stored on the context, if any.
func Value(c *gin.Context) string {
	return c.GetString(contextKey)
}
