package services

import (
	"path/filepath"
	"testing"

	"github.com/hugodiana/BariPlus-sub001/config"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB creates a file-backed SQLite database in a temp directory with
// the production schema applied. A file (not :memory:) so every connection
// in the pool sees the same data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bariplus_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, config.AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// SQLite allows one writer; serialize at the pool instead of retrying
	// busy errors in every test.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}
