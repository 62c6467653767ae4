// Copyright 2025 Certen Protocol
//
// Package relayer is the multitasked driver around the core: an action
// listener, a block poller stub, and a proof-cycle loop that advances
// State and persists it. It is the native-relayer analog of cmd/guest's
// single zk-guest invocation — the same pkg/stf.Run call, wrapped with
// the I/O the core itself never performs (spec.md §5's "surrounding
// relayer is multitasked" contract).
//
// Grounded on _examples/original_source/relayer/src/relayer.rs's
// UntronRelayer (state held behind a mutex, a channel handing closed
// orders to a downstream consumer) and the teacher's top-level main.go
// wiring style (construct components, log each stage, serve a health
// endpoint, wait on a shutdown signal).
package relayer

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/certen/untron-stf/pkg/snapshot"
	"github.com/certen/untron-stf/pkg/stf"
	"github.com/certen/untron-stf/pkg/untronstate"
)

// Driver owns the relayer's single State value and advances it one STF
// invocation ("proof cycle") at a time. State is held behind a mutex and
// mutated only inside RunCycle, matching spec.md §5's contract that the core
// itself performs no I/O and observes no concurrency.
type Driver struct {
	mu    sync.Mutex
	state *untronstate.State
	store *snapshot.Store

	logger *log.Logger
}

// NewDriver constructs a Driver, loading its initial State from store. A
// fresh deployment (store.Load returning snapshot.ErrNoSnapshot) starts from
// untronstate.NewState().
func NewDriver(store *snapshot.Store, logger *log.Logger) (*Driver, error) {
	state, err := store.Load()
	if err != nil {
		if err != snapshot.ErrNoSnapshot {
			return nil, fmt.Errorf("relayer: loading snapshot: %w", err)
		}
		logger.Printf("no prior snapshot found, starting from a fresh state")
		state = untronstate.NewState()
	}

	return &Driver{state: state, store: store, logger: logger}, nil
}

// CycleResult is one proof cycle's outcome: the closed orders the STF
// produced, tagged with a correlation id for the relayer's log lines and for
// a downstream fulfiller consuming them off a channel (matching
// relayer.rs's mpsc channel hand-off to its fulfiller task).
type CycleResult struct {
	CycleID      uuid.UUID
	ClosedOrders []untronstate.ClosedOrder
}

// RunCycle ingests actions and blocks delivered by the action listener and
// block poller (in the order spec.md §5 requires: settlement-chain order for
// actions, source-chain order starting at the block after the current
// latest_block_id for blocks), advances State via the state transition
// function, and persists the new State on success.
//
// A fatal STF error leaves the prior, already-persisted snapshot in place —
// per spec.md §5 there is no recovery from a fatal state transition, so this
// cycle's (possibly partial) in-memory mutation is discarded rather than
// saved.
func (d *Driver) RunCycle(actions []untronstate.Action, blocks []untronstate.RawBlock) (*CycleResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cycleID := uuid.New()
	d.logger.Printf("[cycle %s] running state transition over %d actions, %d blocks", cycleID, len(actions), len(blocks))

	working, err := untronstate.UnmarshalState(untronstate.MarshalState(d.state))
	if err != nil {
		return nil, fmt.Errorf("relayer: copying state for cycle %s: %w", cycleID, err)
	}

	closedOrders, err := stf.Run(working, actions, blocks)
	if err != nil {
		d.logger.Printf("[cycle %s] state transition failed: %v", cycleID, err)
		return nil, fmt.Errorf("relayer: state transition: %w", err)
	}

	if err := d.store.Save(working); err != nil {
		return nil, fmt.Errorf("relayer: persisting state after cycle %s: %w", cycleID, err)
	}
	d.state = working

	d.logger.Printf("[cycle %s] closed %d orders, new latest_block_id=%x", cycleID, len(closedOrders), d.state.LatestBlockID)
	return &CycleResult{CycleID: cycleID, ClosedOrders: closedOrders}, nil
}

// State returns a snapshot of the current latest block id and action chain
// for diagnostics (the health endpoint reports these); it does not expose
// the full State value, since callers outside the driver have no business
// mutating it directly.
func (d *Driver) State() (latestBlockID, actionChain [32]byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.LatestBlockID, d.state.ActionChain
}
