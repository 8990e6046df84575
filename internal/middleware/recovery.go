package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kiwoompulse/internal/domain/dto"
	"github.com/guttosm/kiwoompulse/internal/logger"
)

// RecoveryMiddleware recovers from panics in handlers, logs the stack trace with the
// request id and answers 500 with a dto.ErrorResponse.
//
// Behavior:
//   - The panic value and stack are logged on the "http" component logger.
//   - The chain is aborted so later handlers never write a second body.
//
// Returns:
//   - gin.HandlerFunc: middleware to register before the route handlers.
//
// Example:
//
//	router := gin.New()
//	router.Use(middleware.RecoveryMiddleware())
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				// ─── Log ───────────────────────────────
				log := logger.Component("http")
				log.Error().
					Str("request_id", GetRequestID(c)).
					Str("path", c.Request.URL.Path).
					Str("panic", fmt.Sprintf("%v", r)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				// ─── Respond ───────────────────────────
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", fmt.Errorf("%v", r)))
			}
		}()

		c.Next()
	}
}
