package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite(t *testing.T) {
	config := Config{
		Driver:  "sqlite",
		Path:    filepath.Join(t.TempDir(), "test.db"),
		Timeout: 5 * time.Second,
	}

	db, err := Open(config)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	err = db.HealthCheck(ctx)
	assert.NoError(t, err)

	// Test with cancelled context
	cancelCtx, cancel := context.WithCancel(context.Background())
	cancel()
	err = db.HealthCheck(cancelCtx)
	assert.Error(t, err)
}

func TestOpenPostgres(t *testing.T) {
	// This test requires a running PostgreSQL instance
	config := Config{
		Driver:          "postgres",
		Host:            "localhost",
		Port:            5432,
		User:            "cleancity",
		Password:        "cleancity_dev_password",
		Database:        "cleancity_dev",
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 2 * time.Minute,
		Timeout:         10 * time.Second,
	}

	db, err := Open(config)
	if err != nil {
		t.Skipf("Skipping test: PostgreSQL not available: %v", err)
		return
	}
	defer db.Close()

	ctx := context.Background()
	err = db.HealthCheck(ctx)
	require.NoError(t, err)

	stats := db.Stats()
	assert.GreaterOrEqual(t, stats.MaxOpenConnections, 5)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	assert.Error(t, err)
}
