package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kiwoompulse/internal/domain/dto"
	"github.com/guttosm/kiwoompulse/internal/kiwoom"
)

// ErrorHandler turns the last error attached with c.Error into a dto.ErrorResponse.
//
// Handlers report failures with:
//
//	_ = c.Error(err).SetMeta("failed to fetch ranking")
//
// The meta string becomes the message; the status comes from StatusFor.
// Nothing is written when the handler already produced a response.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	last := c.Errors.Last()
	msg, ok := last.Meta.(string)
	if !ok || msg == "" {
		msg = "internal server error"
	}
	c.JSON(StatusFor(last.Err), dto.NewErrorResponse(msg, last.Err))
}

// StatusFor maps an error to the HTTP status the API answers with.
//
//   - broker rejected the call or answered garbage: 502 Bad Gateway
//   - request deadline exceeded: 504 Gateway Timeout
//   - anything else: 500
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case kiwoom.IsUnauthorized(err),
		errors.Is(err, kiwoom.ErrMissingField),
		errors.Is(err, kiwoom.ErrMalformedResponse):
		return http.StatusBadGateway
	}
	if _, ok := kiwoom.AsAPIError(err); ok {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// AbortWithError stops the chain and writes a dto.ErrorResponse with the given status.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
