package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kiwoompulse/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	requestTimeout  = 10 * time.Second
	rateLimit       = 60
	rateLimitWindow = time.Minute
)

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Parameters:
//   - handler: ranking endpoints backed by the service layer.
//
// Returns:
//   - *gin.Engine: engine with middlewares, Swagger and /api/v1 mounted.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, RateLimiter).
//   - Bounds every request context to 10 seconds, broker calls included.
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures API v1 routes (/api/v1).
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(rateLimit, rateLimitWindow),
		middleware.Timeout(requestTimeout),
	)

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")
	{
		rankings := v1.Group("/rankings")
		rankings.GET("/trade-value", handler.GetTradeValueRanking)
		rankings.GET("/trade-value/latest", handler.GetLatestSnapshot)
	}

	return router
}
