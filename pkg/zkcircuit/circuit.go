// Copyright 2025 Certen Protocol
//
// Package zkcircuit defines an optional gnark circuit proving that a batch of
// closed-order entries (pkg/entry's packed (action_id, inflow) tuples) commits
// to a claimed root, without revealing the individual entries.
//
// This is an alternative external verifier alongside the fixed-ABI
// settlement-chain contract (pkg/settlementchain) and the STF's own
// commitment scheme (pkg/entry, §4.7) — nothing in pkg/stf or pkg/entry
// calls into this package. It exists for settlement-chain deployments that
// want a SNARK-verified entry commitment instead of (or in addition to)
// checking the packed output bytes directly.
package zkcircuit

import (
	"github.com/consensys/gnark/frontend"
)

// BatchSize is the fixed number of entries a single EntryCommitmentCircuit
// proof covers. Larger closed-order batches are split into BatchSize-sized
// chunks by the caller; this package does not do the splitting itself.
const BatchSize = 4

// EntryCommitmentCircuit proves knowledge of BatchSize (action_id, inflow)
// pairs that fold, left to right, into a claimed public Root.
//
// The fold uses the same fixed-coefficient linear commitment the teacher's
// BLS circuits use for pubkey/signature commitments rather than an in-circuit
// cryptographic hash gadget (a real Merkle-tree SHA-256 gadget costs orders
// of magnitude more constraints for no benefit in this optional, secondary
// verifier) — see foldEntry.
type EntryCommitmentCircuit struct {
	// Root is the claimed commitment over all BatchSize entries.
	Root frontend.Variable `gnark:",public"`

	// Total is the sum of every entry's Inflow, asserted against the sum of
	// the private entries below so the proof also attests to the aggregate
	// payout amount a fulfiller would need to cover.
	Total frontend.Variable `gnark:",public"`

	// ActionIDs and Inflows are the private batch entries. ActionID is
	// treated as a single field element (the STF's 32-byte action id reduced
	// mod the scalar field by the caller building the witness); Inflow is
	// the order's closing inflow.
	ActionIDs [BatchSize]frontend.Variable
	Inflows   [BatchSize]frontend.Variable
}

// Define implements the circuit constraints.
func (c *EntryCommitmentCircuit) Define(api frontend.API) error {
	root := frontend.Variable(0)
	total := frontend.Variable(0)

	for i := 0; i < BatchSize; i++ {
		root = foldEntry(api, root, c.ActionIDs[i], c.Inflows[i])
		total = api.Add(total, c.Inflows[i])
	}

	api.AssertIsEqual(c.Root, root)
	api.AssertIsEqual(c.Total, total)
	return nil
}

// foldEntry combines an accumulator with one (actionID, inflow) entry using a
// fixed-coefficient linear mix, the same commitment shape bls_zkp's
// computePubkeyCommitment uses for combining curve-point coordinates.
func foldEntry(api frontend.API, acc, actionID, inflow frontend.Variable) frontend.Variable {
	r := frontend.Variable(11)
	r2 := api.Mul(r, r)
	mixed := api.Add(api.Mul(actionID, r), api.Mul(inflow, r2))
	return api.Add(acc, mixed)
}
