package store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool *pgxpool.Pool
	once sync.Once
)

// InitDB initializes the database connection pool from the DATABASE_URL
// environment variable. Persistence is optional: callers that never call
// InitDB run file-cache only.
func InitDB(ctx context.Context) error {
	var initErr error
	once.Do(func() {
		url := os.Getenv("DATABASE_URL")
		if url == "" {
			initErr = fmt.Errorf("DATABASE_URL is not set")
			return
		}
		p, err := pgxpool.New(ctx, url)
		if err != nil {
			initErr = fmt.Errorf("failed to create connection pool: %w", err)
			return
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			initErr = fmt.Errorf("failed to ping database: %w", err)
			return
		}
		pool = p
	})
	return initErr
}

// GetPool returns the shared connection pool, or nil if InitDB has not
// succeeded.
func GetPool() *pgxpool.Pool {
	return pool
}

// CloseDB closes the shared pool.
func CloseDB() {
	if pool != nil {
		pool.Close()
	}
}
