// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

const (
	sqliteFile = "library.db"
	slotsTable = "slots"
)

// SQLiteSlot stores slots as rows of a SQLite table.
type SQLiteSlot struct {
	db *sql.DB
}

// NewSQLiteSlot opens or creates dataDir/library.db and its schema.
func NewSQLiteSlot(dataDir string) (*SQLiteSlot, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, sqliteFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteSlot{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteSlot) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS ` + slotsTable + ` (
		slot_key TEXT PRIMARY KEY,
		slot_value BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	return err
}

// Get returns the value stored under key.
func (s *SQLiteSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := sq.Select("slot_value").
		From(slotsTable).
		Where(sq.Eq{"slot_key": key}).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("building query: %w", err)
	}

	var value []byte
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading slot %s: %w", key, err)
	}
	return value, true, nil
}

// Put replaces the value stored under key.
func (s *SQLiteSlot) Put(ctx context.Context, key string, value []byte) error {
	query, args, err := sq.Insert(slotsTable).
		Columns("slot_key", "slot_value", "updated_at").
		Values(key, value, time.Now().UTC().Format(time.RFC3339Nano)).
		Suffix("ON CONFLICT(slot_key) DO UPDATE SET slot_value=excluded.slot_value, updated_at=excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	return nil
}

// Close releases the database connection.
func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
