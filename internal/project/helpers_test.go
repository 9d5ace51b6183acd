package project

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SlpAus/portfolio-backend/internal/platform/config"
	"github.com/SlpAus/portfolio-backend/internal/platform/database"
	"github.com/SlpAus/portfolio-backend/internal/platform/logging"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQL(config.DatabaseConfig{
		Driver: config.DriverSqlite,
		SQL:    config.SQLConfig{DSN: ":memory:"},
	}, logging.Discard())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = database.CloseSQL(db) })
	return db
}

func newTestService(t *testing.T) (*Service, *SQLRepository) {
	t.Helper()
	repo := NewSQLRepository(openTestDB(t))
	return NewService(repo, nil, logging.Discard()), repo
}
