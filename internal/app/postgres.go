package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/guttosm/kiwoompulse/config"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
)

const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
	pingTimeout     = 5 * time.Second
)

// sqlOpener is an indirection for unit testing; defaults to sql.Open
var sqlOpener = sql.Open

// InitPostgres opens the snapshot database described by cfg.Postgres and pings it.
//
// The pool is sized for the collector (one connection per market in flight) plus API traffic.
//
// Parameters:
//   - cfg: application config; only cfg.Postgres is read, through PostgresConfig.DSN().
//
// Returns:
//   - *sql.DB: pooled handle that answered a ping within 5 seconds.
//   - error: open or ping failure. The pool is closed before a ping error is returned.
//
// Example usage:
//
//	db, err := app.InitPostgres(config.AppConfig)
//	if err != nil {
//	    logger.L().Fatal().Err(err).Msg("db connect error")
//	}
//	defer db.Close()
func InitPostgres(cfg config.Config) (*sql.DB, error) {
	// ─── Open ─────────────────────────────────────
	db, err := sqlOpener("postgres", cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	// ─── Pool ─────────────────────────────────────
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	// ─── Ping ─────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return db, nil
}

// postgresOpener is an indirection used by InitializeApp; overridden in tests to avoid real connections.
var postgresOpener = InitPostgres
