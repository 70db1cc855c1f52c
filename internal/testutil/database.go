package testutil

import (
	"testing"

	"inkwell/internal/db"

	"gorm.io/gorm"
)

// NewTestDB opens an in-memory SQLite database with the schema applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Connect("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	t.Cleanup(func() {
		sqlDB.Close()
	})

	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	return gdb
}
