package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"library-circulation/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver for the sqlx read side
)

const connectTimeout = 10 * time.Second

// Connect opens the pgx pool used by the write side.
func Connect(cfg config.DBConfig) (*pgxpool.Pool, func(), error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.BuildDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MaxConnLifetime = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, pool.Close, nil
}

// ConnectReader opens the sqlx handle used by the read side.
func ConnectReader(cfg config.DBConfig) (*sqlx.DB, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.BuildDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open read database: %w", err)
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(int(max(cfg.MaxConns, 1)))
	db.SetConnMaxLifetime(time.Hour)

	cleanup := func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close read database", "error", err)
		}
	}

	return db, cleanup, nil
}
