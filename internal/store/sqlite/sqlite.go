// Package sqlite implements the snapshot store on an embedded SQLite
// database, for deployments that want the board on local disk instead of a
// remote repository.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — works everywhere Go works, and tests can use the
// ":memory:" DSN.
//
// Unlike the GitHub backend, this one CAN validate the caller's revision:
// the snapshot row carries a revision column, Save compares it to the
// caller's token inside a transaction and returns apperror.ErrConflict on
// mismatch. Still no retry — the conflict is reported once.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver with database/sql

	"github.com/satriadev/codeshare/internal/apperror"
	"github.com/satriadev/codeshare/internal/model"
	"github.com/satriadev/codeshare/internal/store"
)

// snapshotName keys the single row holding the board. One board per
// database file keeps the blob-store semantics intact.
const snapshotName = "board"

// Store wraps a sql.DB connection pool.
type Store struct {
	conn *sql.DB
}

var _ store.Store = (*Store)(nil)

// New opens (or creates) the database at dbPath and runs migrations.
// Pass ":memory:" for a throwaway in-memory store in tests.
func New(dbPath string) (*Store, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in flight.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	return s, nil
}

// Close closes the connection pool. Always defer this next to New.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			name       TEXT PRIMARY KEY,
			revision   TEXT NOT NULL,
			payload    TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating snapshots table: %w", err)
	}
	return nil
}

// Load reads the board snapshot. An absent row is an empty board, not an
// error — matching the read policy of the remote backend.
func (s *Store) Load(ctx context.Context) (*model.Snapshot, store.Revision, error) {
	var (
		revision string
		payload  string
	)
	err := s.conn.QueryRowContext(ctx,
		`SELECT revision, payload FROM snapshots WHERE name = ?`,
		snapshotName,
	).Scan(&revision, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.EmptySnapshot(), "", nil
	}
	if err != nil {
		return model.EmptySnapshot(), "", nil
	}

	var snap model.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		// A corrupt payload reads as empty; the next save overwrites it.
		return model.EmptySnapshot(), "", nil
	}
	snap.Normalize()
	return &snap, store.Revision(revision), nil
}

// Save replaces the stored snapshot, but only if the caller's revision
// matches the stored one. A fresh xid becomes the new revision.
func (s *Store) Save(ctx context.Context, snap *model.Snapshot, known store.Revision) (store.Revision, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return "", apperror.StoreWriteFailed(fmt.Errorf("encoding snapshot: %w", err))
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", apperror.StoreWriteFailed(fmt.Errorf("beginning transaction: %w", err))
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx,
		`SELECT revision FROM snapshots WHERE name = ?`, snapshotName,
	).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		current = ""
	case err != nil:
		return "", apperror.StoreWriteFailed(fmt.Errorf("reading current revision: %w", err))
	}

	if current != string(known) {
		return "", apperror.Conflict("snapshot",
			fmt.Sprintf("stored revision %q does not match known revision %q", current, known))
	}

	next := xid.New().String()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (name, revision, payload, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		 	revision = excluded.revision,
		 	payload = excluded.payload,
		 	updated_at = excluded.updated_at`,
		snapshotName, next, string(payload), time.Now(),
	)
	if err != nil {
		return "", apperror.StoreWriteFailed(fmt.Errorf("writing snapshot: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return "", apperror.StoreWriteFailed(fmt.Errorf("committing snapshot: %w", err))
	}
	return store.Revision(next), nil
}
