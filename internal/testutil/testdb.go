package testutil

import (
	"testing"
	"time"

	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/database"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/models"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/store"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/store/jsonfile"

	"gorm.io/gorm/logger"
)

// SeedTime is the fixed borrowedDate stamp used for the seeded hammer in tests.
var SeedTime = time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)

// Stores bundles the two collections for handler and route tests.
type Stores struct {
	Users store.Repository[models.User]
	Tools store.Repository[models.Tool]
}

// NewJSONStores opens seeded file-backed stores in a temporary directory.
func NewJSONStores(t *testing.T) Stores {
	t.Helper()
	dir := t.TempDir()
	users, err := jsonfile.Open(dir, "users", models.DefaultUsers())
	if err != nil {
		t.Fatalf("open users store: %v", err)
	}
	tools, err := jsonfile.Open(dir, "werkzeuge", models.DefaultTools(SeedTime))
	if err != nil {
		t.Fatalf("open tools store: %v", err)
	}
	return Stores{Users: users, Tools: tools}
}

// NewInMemoryDBStores creates an in-memory SQLite DB, migrates and seeds both tables.
func NewInMemoryDBStores(t *testing.T) Stores {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, ":memory:", logger.Silent)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	users, err := database.NewRepository(db, models.DefaultUsers())
	if err != nil {
		t.Fatalf("users repository: %v", err)
	}
	tools, err := database.NewRepository(db, models.DefaultTools(SeedTime))
	if err != nil {
		t.Fatalf("tools repository: %v", err)
	}
	return Stores{Users: users, Tools: tools}
}
