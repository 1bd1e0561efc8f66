package testdb

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/status-beacon/beacon/db"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Setup points the global db handle at a fresh in-memory database and
// migrates the schema. The connection pool is capped at one so every query
// sees the same in-memory database.
func Setup(t *testing.T) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})

	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()

	if err != nil {
		t.Fatalf("Failed to get underlying connection: %v", err)
	}

	sqlDB.SetMaxOpenConns(1)

	db.DB = gdb

	if err := db.MigrateDatabase(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})
}
