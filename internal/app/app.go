package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kiwoompulse/config"
	"github.com/guttosm/kiwoompulse/internal/api"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres().
//   - Builds the broker client, the snapshot repository and the ranking service.
//   - Creates the HTTP handler layer and the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close the DB pool.
//
// Returns:
//   - *gin.Engine: router serving /api/v1, /swagger, /healthz and /readyz.
//   - func(): closes the DB pool; call it once the HTTP server has stopped.
//   - error: non-nil when Postgres cannot be opened or pinged.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	// ─── Postgres ─────────────────────────────────
	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	// ─── Service (broker client + repository) ─────
	svc, _ := NewRankingService(cfg, db)

	// ─── HTTP layer ───────────────────────────────
	handler := api.NewHandler(svc)
	router := api.NewRouter(handler)

	healthHandler := api.NewHealthHandler(db.PingContext)
	healthHandler.Register(router)

	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}
