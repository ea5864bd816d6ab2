package draft

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// OpenPostgres connects to PostgreSQL using a lib/pq DSN and returns a store
// backed by it.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("draft: open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("draft: ping postgres: %w", err)
	}
	store, err := NewSQLStore(ctx, db, DialectPostgres, "")
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
