package database

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"finledger/internal/config"
	"finledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(&config.DatabaseConfig{Driver: "mysql"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestInitialize_SQLite(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "nested", "ledger.db"),
		},
	}

	db, err := Initialize(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.HealthCheck(context.Background()))
	assert.True(t, db.Migrator().HasTable(&models.Category{}))
	assert.True(t, db.Migrator().HasTable(&models.Transaction{}))
	assert.True(t, db.Migrator().HasIndex(&models.Category{}, "idx_categories_title"))
}

func TestSetupTestDB_IsolatedPerTest(t *testing.T) {
	first := SetupTestDB(t)
	second := SetupTestDB(t)

	CreateTestCategory(t, first, "Food")

	var count int64
	require.NoError(t, second.Model(&models.Category{}).Count(&count).Error)
	assert.Zero(t, count)

	CleanupTestDB(t, first)
	require.NoError(t, first.Model(&models.Category{}).Count(&count).Error)
	assert.Zero(t, count)
}
