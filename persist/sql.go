package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
)

// Dialect describes how a database driver spells the statements of an SQLStore.
type Dialect struct {
	// Driver is the name the driver registered with database/sql.
	Driver string

	// BlobType is the column type of values.
	BlobType string

	// Placeholder returns the placeholder of the n-th argument, starting at 1.
	Placeholder func(n int) string
}

var (
	// SQLite is the dialect of github.com/mattn/go-sqlite3.
	SQLite = Dialect{
		Driver:      "sqlite3",
		BlobType:    "BLOB",
		Placeholder: func(int) string { return "?" },
	}

	// Postgres is the dialect of github.com/lib/pq.
	Postgres = Dialect{
		Driver:      "postgres",
		BlobType:    "BYTEA",
		Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	}
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLStore keeps values in a two-column table of an SQL database.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect

	load, save, delete string
}

// OpenSQLStore opens the database and creates the table if needed. The caller must import the driver.
func OpenSQLStore(ctx context.Context, dialect Dialect, dsn, table string) (*SQLStore, error) {
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store, err := NewSQLStore(ctx, db, dialect, table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// NewSQLStore uses an open database, creating the table if needed. Closing the store closes the database.
func NewSQLStore(ctx context.Context, db *sql.DB, dialect Dialect, table string) (*SQLStore, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, value %s NOT NULL)`,
		table, dialect.BlobType,
	)); err != nil {
		return nil, fmt.Errorf("failed to create table %q: %w", table, err)
	}

	p := dialect.Placeholder

	return &SQLStore{
		db:      db,
		dialect: dialect,

		load: fmt.Sprintf(`SELECT value FROM %s WHERE key = %s`, table, p(1)),
		save: fmt.Sprintf(
			`INSERT INTO %s (key, value) VALUES (%s, %s) ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
			table, p(1), p(2),
		),
		delete: fmt.Sprintf(`DELETE FROM %s WHERE key = %s`, table, p(1)),
	}, nil
}

func (s *SQLStore) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte

	if err := s.db.QueryRowContext(ctx, s.load, key).Scan(&data); errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return data, nil
}

func (s *SQLStore) Save(ctx context.Context, key string, data []byte) error {
	if data == nil {
		data = []byte{}
	}

	_, err := s.db.ExecContext(ctx, s.save, key, data)

	return err
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.delete, key)

	return err
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
