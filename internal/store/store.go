// Package store persists the question bank, approved exam history, and
// LLM call log in SQLite or PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"

	// Postgres driver, registered as "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Driver names a supported database backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Store holds the database handle and provides access to repositories.
type Store struct {
	db     *sql.DB
	driver Driver
}

// DetectDriver picks the backend for dsn. Postgres URLs select pgx;
// anything else is treated as a SQLite path or URI.
func DetectDriver(dsn string) Driver {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// Open connects to dsn, applies SQLite pragmas where relevant, creates the
// schema, and checks the stored schema version.
func Open(dsn string) (*Store, error) {
	ctx := context.Background()
	driver := DetectDriver(dsn)

	drvName := "sqlite"
	if driver == DriverPostgres {
		drvName = "pgx"
	}
	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if driver == DriverSQLite {
		// Pragmas are per connection.
		db.SetMaxOpenConns(1)
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	} else if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect: %w", err)
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns the backend in use.
func (s *Store) Driver() Driver {
	return s.driver
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Questions returns the bank repository.
func (s *Store) Questions() *QuestionRepo {
	return &QuestionRepo{db: s.db}
}

// Exams returns the approved exam history repository.
func (s *Store) Exams() ExamRepo {
	return &examRepo{db: s.db}
}

// Events returns the LLM call log repository.
func (s *Store) Events() EventRepo {
	return &eventRepo{db: s.db}
}

func (s *Store) migrate(ctx context.Context) error {
	schema := schemaSQLite
	if s.driver == DriverPostgres {
		schema = schemaPostgres
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return checkVersion(ctx, s.db)
}

// checkVersion records SchemaVersion in a fresh database and refuses
// databases written by a newer major or minor schema.
func checkVersion(ctx context.Context, db *sql.DB) error {
	stored, err := readSchemaVersion(ctx, db)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES ($1, $2)`, "schema_version", SchemaVersion)
		if err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	}

	if err := CheckCompatible(stored, SchemaVersion); err != nil {
		return err
	}
	if semver.Compare(stored, SchemaVersion) < 0 {
		_, err = db.ExecContext(ctx, `UPDATE meta SET value = $1 WHERE key = $2`, SchemaVersion, "schema_version")
		if err != nil {
			return fmt.Errorf("update schema version: %w", err)
		}
	}
	return nil
}

func readSchemaVersion(ctx context.Context, db *sql.DB) (string, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = $1`, "schema_version").Scan(&v)
	return v, err
}

// SchemaVersion returns the schema version recorded in the database.
func (s *Store) SchemaVersion(ctx context.Context) (string, error) {
	v, err := readSchemaVersion(ctx, s.db)
	if err != nil {
		return "", fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// CheckCompatible reports whether a binary built for schema binary can
// open a database at schema stored: same major version, and a minor
// version no older than the database's.
func CheckCompatible(stored, binary string) error {
	if !semver.IsValid(stored) {
		return fmt.Errorf("database has invalid schema version %q", stored)
	}
	if !semver.IsValid(binary) {
		return fmt.Errorf("invalid schema version %q", binary)
	}
	if semver.Major(stored) != semver.Major(binary) ||
		semver.Compare(semver.MajorMinor(stored), semver.MajorMinor(binary)) > 0 {
		return fmt.Errorf("database schema %s is not compatible with %s", stored, binary)
	}
	return nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. EXAMBANK_DB environment variable
// 2. $XDG_DATA_HOME/exambank/exambank.db
// 3. ~/.local/share/exambank/exambank.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("EXAMBANK_DB"); p != "" {
		if DetectDriver(p) == DriverPostgres {
			return p, nil
		}
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "exambank", "exambank.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
