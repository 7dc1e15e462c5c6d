package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrNotFound is returned by every get-by-id when no row matches
	ErrNotFound = errors.New("not found")
	// ErrUnknownColor is returned for a color id outside the tag palette
	ErrUnknownColor = errors.New("unknown color id")
	// ErrUnknownBatchOp is returned for an unrecognized batch operation kind
	ErrUnknownBatchOp = errors.New("unknown batch operation")
	// ErrInvalidParent is returned when a todo would become its own parent
	ErrInvalidParent = errors.New("todo cannot be its own parent")
	// ErrNoUpdates is returned when a sparse update names no fields
	ErrNoUpdates = errors.New("no fields to update")
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLiteStore)(nil)

// Open opens (creating if necessary) the database at dbPath, applies
// pragmas and migrations, and returns a ready store. Once Open returns
// successfully every store operation can run.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open(DriverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL for better read concurrency; single writer suits SQLite
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := ApplyMigrations(context.Background(), db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// querier is satisfied by both *sqlx.DB and *sqlx.Tx so every operation
// can run standalone or inside a transaction
type querier = sqlx.ExtContext

// withTx runs fn inside a transaction, rolling back on error
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// nowMillis is the timestamp format for snippets, folders, todos, tags,
// comments and attachments
func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// nowRFC3339 is the timestamp format for workspaces, projects and git
// repositories
func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
