package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

// NewSQLite opens a file-backed sqlite database for local development.
// The repositories use $N placeholders, which the sqlite driver accepts,
// so the same SQL runs against both backends.
func NewSQLite(config Config) (*DB, error) {
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	path := config.Path
	if path == "" {
		path = "./cleancity.db"
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// sqlite serializes writers; a single connection avoids SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return &DB{sqlDB}, nil
}
