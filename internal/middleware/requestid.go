package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// RequestID is a Gin middleware that tags every request with an identifier.
//
// Behavior:
//   - Reuses the caller's X-Request-ID when it is a valid UUID, so a trace can span services.
//   - Otherwise generates a new UUID (v4).
//   - Stores it in the Gin context under "request_id" and echoes it in the X-Request-ID header.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID())
//
// Reading it downstream:
//
//	rid := middleware.GetRequestID(c)
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)

		c.Next()
	}
}

// GetRequestID returns the id injected by RequestID, or "" when the middleware did not run.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
