package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kiwoompulse/internal/logger"
	"github.com/rs/zerolog"
)

// RequestLogger is a Gin middleware that writes one structured entry per request.
//
// The level follows the outcome: 5xx at error, 4xx at warn, everything else at info.
// Errors attached with c.Error are included, which is how broker failures show up in the log.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID(), middleware.RequestLogger())
//
// Example log output:
//
//	{"level":"info","component":"http","request_id":"123e4567-e89b-12d3-a456-426614174000","method":"GET","path":"/api/v1/rankings/trade-value","query":"mrkt_tp=001","status":200,"latency_ms":182,"message":"http_request"}
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		log := logger.Component("http")

		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		default:
			ev = log.Info()
		}

		ev = ev.
			Str("request_id", GetRequestID(c)).
			Str("method", method).
			Str("path", path).
			Int("status", status).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Str("client_ip", c.ClientIP())
		if query != "" {
			ev = ev.Str("query", query)
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Msg("http_request")
	}
}
