package database

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"
)

// NewTestDB returns a migrated in-memory SQLite database private to the test.
// A single connection keeps the shared-cache database alive for the test.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := OpenSQLite(dsn, Config{MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
