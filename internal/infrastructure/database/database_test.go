package database

import (
	"context"
	"testing"

	"github.com/sangkips/tienda-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: "sqlite", SQLitePath: "file::memory:"}

	db, err := Open(cfg, false, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db, zap.NewNop()))
	require.NoError(t, Ping(context.Background(), db))

	for _, table := range []string{"products", "invoices", "stock_movements", "clients", "employees", "suppliers", "companies", "idempotency_keys"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"}, false, zap.NewNop())
	assert.Error(t, err)
}
