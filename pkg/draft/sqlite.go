package draft

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens (or creates) a SQLite database at path and returns a
// store backed by it. Use ":memory:" for an ephemeral database.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("draft: create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("draft: open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases consistent across calls.
	db.SetMaxOpenConns(1)

	store, err := NewSQLStore(ctx, db, DialectSQLite, "")
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
