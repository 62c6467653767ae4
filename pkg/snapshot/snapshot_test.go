// Copyright 2025 Certen Protocol

package snapshot

import (
	"testing"

	dbm "github.com/cometbft/cometbft-db"

	"github.com/certen/untron-stf/pkg/untronstate"
)

func TestStore_LoadBeforeSave_ReturnsErrNoSnapshot(t *testing.T) {
	s := NewWithDB(dbm.NewMemDB())
	if _, err := s.Load(); err != ErrNoSnapshot {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestStore_SaveLoad_RoundTrip(t *testing.T) {
	s := NewWithDB(dbm.NewMemDB())

	state := untronstate.NewState()
	state.ActionChain[0] = 0xab
	state.SRs[0] = [20]byte{0x01, 0x02}

	if err := s.Save(state); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ActionChain != state.ActionChain {
		t.Fatalf("action chain mismatch: got %x want %x", got.ActionChain, state.ActionChain)
	}
	if got.SRs != state.SRs {
		t.Fatalf("SR set mismatch")
	}
}

func TestStore_SaveOverwritesPreviousSnapshot(t *testing.T) {
	s := NewWithDB(dbm.NewMemDB())

	first := untronstate.NewState()
	first.ActionChain[0] = 0x01
	if err := s.Save(first); err != nil {
		t.Fatalf("save first: %v", err)
	}

	second := untronstate.NewState()
	second.ActionChain[0] = 0x02
	if err := s.Save(second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ActionChain != second.ActionChain {
		t.Fatalf("expected latest save to win: got %x want %x", got.ActionChain, second.ActionChain)
	}
}
