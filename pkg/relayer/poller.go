// Copyright 2025 Certen Protocol
//
// Block poller stub. Streaming raw TRON-style blocks from a source-chain
// full node is out of this engine's scope (§1's non-goals: source-chain RPC
// transport); this type exists so Driver.RunCycle has a typed producer to
// call and so the relayer's wiring compiles end to end, matching how
// _examples/original_source/relayer/src/relayer.rs's own main loop left
// "Fetch new actions and blocks" as an unfilled step around a real STF call.
package relayer

import (
	"context"
	"errors"

	"github.com/certen/untron-stf/pkg/untronstate"
)

// ErrBlockPollerNotImplemented is returned by BlockPoller.Poll: wiring a real
// source-chain client (gRPC streaming, HTTP polling, whatever the deployed
// full node exposes) is left to the integrator, since this repository's core
// only needs a RawBlock slice, not a specific transport.
var ErrBlockPollerNotImplemented = errors.New("relayer: block poller has no wired source-chain transport")

// BlockPoller fetches RawBlocks from the source chain starting at a given
// block number, in order.
type BlockPoller interface {
	Poll(ctx context.Context, fromBlockNumber uint64) ([]untronstate.RawBlock, error)
}

// StubBlockPoller implements BlockPoller by always failing with
// ErrBlockPollerNotImplemented. It satisfies Driver's dependency so
// cmd/relayer can be wired and compiled without a concrete source-chain
// client.
type StubBlockPoller struct{}

// Poll always returns ErrBlockPollerNotImplemented.
func (StubBlockPoller) Poll(ctx context.Context, fromBlockNumber uint64) ([]untronstate.RawBlock, error) {
	return nil, ErrBlockPollerNotImplemented
}
