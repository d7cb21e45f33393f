// Package store defines the snapshot store abstraction.
//
// The entire board is persisted as ONE versioned blob — the store is not a
// database, it's a dumb file with a revision token. Backends implement
// whole-snapshot Load/Save; mutation logic never sees HTTP or SQL.
//
// REVISION TOKENS:
// Save takes the revision the caller believes is current. A backend that can
// validate it (sqlite) returns apperror.ErrConflict on mismatch; a backend
// that can't (the GitHub contents API read via the raw endpoint) simply
// carries the freshest token it can find forward. Either way the policy is
// last write wins: nobody re-fetches and retries on conflict.
package store

import (
	"context"

	"github.com/satriadev/codeshare/internal/model"
)

// Revision is the opaque version marker a backend returns from Load and a
// successful Save. Empty means "no stored version yet".
type Revision string

// Store is the repository-style interface every snapshot backend implements.
type Store interface {
	// Load fetches the current snapshot and its revision. A store with no
	// data yet (or one that cannot be reached) returns an empty snapshot,
	// an empty revision, and NO error — on read, unreachable and absent are
	// the same thing: an empty board.
	Load(ctx context.Context) (*model.Snapshot, Revision, error)

	// Save writes the whole snapshot, replacing the version identified by
	// known, and returns the new revision. Failures come back wrapped in
	// apperror.ErrStoreWrite (or ErrConflict when the backend detects a
	// stale revision).
	Save(ctx context.Context, snap *model.Snapshot, known Revision) (Revision, error)
}

// misconfigured is the Store used when required settings are missing: reads
// behave like an empty store and every write fails with the configuration
// error. The rest of the app works normally against the in-memory state.
type misconfigured struct {
	err error
}

// Misconfigured returns a Store that loads empty and refuses writes with
// the given configuration error.
func Misconfigured(err error) Store {
	return &misconfigured{err: err}
}

func (m *misconfigured) Load(context.Context) (*model.Snapshot, Revision, error) {
	return model.EmptySnapshot(), "", nil
}

func (m *misconfigured) Save(context.Context, *model.Snapshot, Revision) (Revision, error) {
	return "", m.err
}
