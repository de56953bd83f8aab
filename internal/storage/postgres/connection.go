package postgres

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/diyprojects/projects/config"
)

// NewConnection opens and pings the configured store. Any failure is
// returned as a *ConnectionError carrying the driver's cause.
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &ConnectionError{Schema: cfg.Name, Cause: err}
	}

	db, err := sqlx.Open(cfg.Driver, DSN(cfg))
	if err != nil {
		return nil, &ConnectionError{Schema: cfg.Name, Cause: fmt.Errorf("failed to open database: %w", err)}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &ConnectionError{Schema: cfg.Name, Cause: fmt.Errorf("failed to ping database: %w", err)}
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	return db, nil
}
