package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"
)

const defaultTableName = "form_drafts"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Dialect captures the SQL differences between supported databases.
type Dialect struct {
	Name        string
	Placeholder func(n int) string
}

var (
	// DialectSQLite uses "?" placeholders.
	DialectSQLite = Dialect{
		Name:        "sqlite",
		Placeholder: func(int) string { return "?" },
	}
	// DialectPostgres uses "$n" placeholders.
	DialectPostgres = Dialect{
		Name:        "postgres",
		Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	}
)

// SQLStore persists drafts in a single key/value table.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	table   string
	now     func() time.Time
}

// NewSQLStore wraps db and creates the drafts table if it does not exist.
// An empty table name selects "form_drafts".
func NewSQLStore(ctx context.Context, db *sql.DB, dialect Dialect, table string) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("draft: sql store requires a database handle")
	}
	if dialect.Placeholder == nil {
		return nil, errors.New("draft: sql dialect is not configured")
	}
	if table == "" {
		table = defaultTableName
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("draft: invalid table name %q", table)
	}

	s := &SQLStore{db: db, dialect: dialect, table: table, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	q := `CREATE TABLE IF NOT EXISTS ` + s.table + ` (
		draft_key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("draft: migrate %s: %w", s.dialect.Name, err)
	}
	return nil
}

// Get implements Store.
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM `+s.table+` WHERE draft_key = `+s.dialect.Placeholder(1),
		key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// Set implements Store.
func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	p := s.dialect.Placeholder
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+s.table+` (draft_key, value, updated_at) VALUES (`+p(1)+`, `+p(2)+`, `+p(3)+`)
		 ON CONFLICT (draft_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), s.now().UTC())
	return err
}

// Delete implements Store.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM `+s.table+` WHERE draft_key = `+s.dialect.Placeholder(1),
		key)
	return err
}

// Close releases the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
