// Copyright 2025 Certen Protocol
//
// Package snapshot persists the relayer's State between process restarts
// using CometBFT's embedded key-value database, the same dbm.DB interface
// pkg/kvdb.KVAdapter wraps for ledger storage — here used directly for the
// relayer's single-key State blob instead of through a generic KV adapter,
// since the relayer only ever needs to save and load one value.
package snapshot

import (
	"errors"
	"fmt"

	dbm "github.com/cometbft/cometbft-db"

	"github.com/certen/untron-stf/pkg/untronstate"
)

// stateKey is the sole key this store writes under. The relayer only ever
// tracks one State at a time, so there is no need for a keyspace.
var stateKey = []byte("untron/state/latest")

// ErrNoSnapshot is returned by Load when the store has never been written to.
var ErrNoSnapshot = errors.New("snapshot: no state has been saved yet")

// Store persists a single untronstate.State value to an embedded
// CometBFT-DB-backed key-value database.
type Store struct {
	db dbm.DB
}

// Open opens (creating if necessary) a GoLevelDB-backed store named name
// under dir, mirroring the teacher's dbm.DB construction for ledger storage.
func Open(name, dir string) (*Store, error) {
	db, err := dbm.NewDB(name, dbm.GoLevelDBBackend, dir)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s in %s: %w", name, dir, err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an already-open dbm.DB, for callers that want to share a
// database handle (tests use dbm.NewMemDB()) instead of opening one on disk.
func NewWithDB(db dbm.DB) *Store {
	return &Store{db: db}
}

// Save writes state's canonical encoding durably (SetSync), so a crash
// immediately after Save cannot lose the write.
func (s *Store) Save(state *untronstate.State) error {
	if err := s.db.SetSync(stateKey, untronstate.MarshalState(state)); err != nil {
		return fmt.Errorf("snapshot: save state: %w", err)
	}
	return nil
}

// Load reads the most recently saved State. It returns ErrNoSnapshot if
// nothing has been saved yet (a fresh relayer deployment starts from
// untronstate.NewState() instead).
func (s *Store) Load() (*untronstate.State, error) {
	raw, err := s.db.Get(stateKey)
	if err != nil {
		return nil, fmt.Errorf("snapshot: load state: %w", err)
	}
	if raw == nil {
		return nil, ErrNoSnapshot
	}
	state, err := untronstate.UnmarshalState(raw)
	if err != nil {
		return nil, fmt.Errorf("snapshot: decode saved state: %w", err)
	}
	return state, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
