package helpers

import (
	"testing"

	"gorm.io/gorm"

	"github.com/AraragiEro/kahuna-bot/internal/infrastructure/database"
)

// NewTestDB opens an in-memory sqlite database with the planner schema
// migrated. It is closed when t finishes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewTestConnection()
	if err != nil {
		t.Fatalf("open planner test database: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return db
}
