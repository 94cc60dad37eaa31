package sqlite

import (
	"database/sql"
	"testing"
)

// OpenTestDB opens a fully migrated in-memory store scoped to the test.
// The pool is pinned to a single connection: every new connection to
// ":memory:" is a separate empty database.
func OpenTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}
