package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

// HealthHandler provides liveness and readiness endpoints.
//
//   - /healthz: process is up, always 200.
//   - /readyz: snapshot storage is reachable; the broker is not probed because every probe would mint a token.
type HealthHandler struct {
	dbPing func(ctx context.Context) error
}

// NewHealthHandler builds the handler around a database ping.
//
// Parameters:
//   - dbPing: typically (*sql.DB).PingContext. A nil ping reports ready.
//
// Returns:
//   - *HealthHandler: call Register to mount its routes.
func NewHealthHandler(dbPing func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{dbPing: dbPing}
}

// Register mounts GET /healthz and GET /readyz on r.
func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.liveness)
	r.GET("/readyz", h.readiness)
}

// liveness godoc
// @Summary      Liveness probe
// @Description  Always returns OK if the service is running
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func (h *HealthHandler) liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readiness godoc
// @Summary      Readiness probe
// @Description  Returns ready if the snapshot database is reachable
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /readyz [get]
func (h *HealthHandler) readiness(c *gin.Context) {
	// ─── Postgres (bounded) ───────────────────────
	if h.dbPing != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := h.dbPing(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "postgres": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
