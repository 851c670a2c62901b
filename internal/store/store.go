package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// connParams are go-sqlite3 DSN options applied to every connection the
// pool opens.
var connParams = url.Values{
	"_journal_mode": {"WAL"},
	"_synchronous":  {"NORMAL"},
	"_busy_timeout": {"5000"},
	"_foreign_keys": {"on"},
}

// migration upgrades the schema to version. Migrations run in order, each
// in its own transaction together with the user_version bump.
type migration struct {
	version int
	stmt    string
}

var migrations = []migration{
	// ListByModel filters on model and orders by name.
	{version: 1, stmt: `CREATE INDEX IF NOT EXISTS idx_definitions_model ON definitions(model, name)`},
}

// Store is the saved-query catalog backed by a single SQLite file.
type Store struct {
	db *sql.DB
}

// Open creates or opens the catalog at path and brings its schema up to
// date. Opening an existing catalog is safe and leaves its rows untouched.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?"+connParams.Encode())
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}

	// One connection: SQLite allows a single writer and the CLI never
	// needs more.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate catalog %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

// Close closes the database. Closing a zero Store is a no-op.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// migrate creates the base tables and applies every migration newer than
// the stored user_version.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	var current int
	if err := db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return err
		}
	}
	return nil
}

func applyMigration(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("v%d: %w", m.version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.stmt); err != nil {
		return fmt.Errorf("v%d: %w", m.version, err)
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
		return fmt.Errorf("v%d: set user_version: %w", m.version, err)
	}
	return tx.Commit()
}

// pragma reads the current value of a pragma as text.
func (s *Store) pragma(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return value, nil
}
