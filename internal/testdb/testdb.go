// Package testdb opens isolated, fully migrated in-memory databases for
// tests.
package testdb

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	_ "github.com/aircon-store/storefront/database/migrations"
	"github.com/aircon-store/storefront/pkg/database"
	"github.com/aircon-store/storefront/pkg/migration"
)

// Open returns a private sqlite memory database with every migration
// applied. It is closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("testdb: open: %v", err)
	}
	if _, err := migration.New(db, nil).Run(); err != nil {
		t.Fatalf("testdb: migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
