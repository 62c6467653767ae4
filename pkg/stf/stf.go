// Copyright 2025 Certen Protocol
//
// Package stf implements the state transition function (C7): the single
// function both the zk-guest and the native relayer call to advance a
// State by a batch of settlement-chain actions and source-chain blocks.
//
// Ported function-for-function from the original implementation's
// program/src/lib.rs::stf, with one structural change: active_addresses
// (which transfer crediting keys off of) is rebuilt here from the
// persisted state.Orders at the start of every call instead of being
// local-only to a single call. State.Orders already enforces "at most one
// order per address" (invariant 6), so the two are always in step; without
// this, an order promoted in one proof could never receive inflow credit
// in a later proof over the same state, since the original's address index
// was never carried in State to begin with. See DESIGN.md.
package stf

import (
	"crypto/sha256"
	"sort"

	"github.com/certen/untron-stf/pkg/hashutil"
	"github.com/certen/untron-stf/pkg/sigrecover"
	"github.com/certen/untron-stf/pkg/tronchain"
	"github.com/certen/untron-stf/pkg/trontx"
	"github.com/certen/untron-stf/pkg/untronstate"
	"github.com/certen/untron-stf/pkg/wireconst"
)

// Run advances state in place by ingesting actions and processing blocks,
// returning every order closed during the call (by final cancellation, TTL
// expiry, or inflow reaching size).
func Run(state *untronstate.State, actions []untronstate.Action, blocks []untronstate.RawBlock) ([]untronstate.ClosedOrder, error) {
	if err := ingestActions(state, actions); err != nil {
		return nil, err
	}

	blockCount := len(blocks)
	if uint64(blockCount) <= wireconst.OrderTTL+wireconst.CycleWindow {
		return nil, ErrTooFewBlocks
	}

	activeAddresses := buildActiveAddressIndex(state)

	var closedOrders []untronstate.ClosedOrder
	previousNonFinalizedID := state.LatestBlockID

	for i, block := range blocks {
		rawDataHash := sha256.Sum256(block.RawData)

		header, err := tronchain.ParseBlockHeader(previousNonFinalizedID, block.RawData, rawDataHash)
		if err != nil {
			return nil, err
		}

		pubKey, err := sigrecover.Recover(block.Signature, rawDataHash)
		if err != nil {
			return nil, ErrSignatureRecovery
		}
		producer := hashutil.AddressFromPublicKey(pubKey)
		if !srContains(state.SRs, producer) {
			return nil, ErrProducerNotSR
		}

		if len(state.Cycle) == untronstate.CycleWindow {
			state.Cycle = state.Cycle[1:]
		}
		for _, p := range state.Cycle {
			if p == producer {
				return nil, ErrDuplicateInCycle
			}
		}
		state.Cycle = append(state.Cycle, producer)

		previousNonFinalizedID = header.NewBlockID

		if blockCount-i <= untronstate.CycleWindow {
			continue
		}

		state.LatestBlockID = header.NewBlockID
		state.LatestTimestamp = header.Timestamp

		if err := promoteDueActions(state, activeAddresses, &closedOrders, header.Timestamp); err != nil {
			return nil, err
		}

		sweepExpiredOrders(state, activeAddresses, &closedOrders, header.Timestamp)

		txHashes := make([][32]byte, len(block.Txs))
		for i, tx := range block.Txs {
			txHashes[i] = sha256.Sum256(tx)
		}
		if hashutil.MerkleRoot(txHashes) != header.TxRoot {
			return nil, ErrMerkleMismatch
		}

		if err := scanContent(state, activeAddresses, &closedOrders, block.Txs); err != nil {
			return nil, err
		}

		if err := runMaintenanceIfDue(state); err != nil {
			return nil, err
		}
	}

	return closedOrders, nil
}

func ingestActions(state *untronstate.State, actions []untronstate.Action) error {
	for _, action := range actions {
		if action.Prev != state.ActionChain {
			return ErrActionChainMismatch
		}
		id := sha256.Sum256(action.EncodeCanonical())
		state.ActionChain = id
		state.PendingActions = append(state.PendingActions, untronstate.PendingAction{Action: action, ActionID: id})
	}
	return nil
}

func buildActiveAddressIndex(state *untronstate.State) map[[20]byte][32]byte {
	index := make(map[[20]byte][32]byte, len(state.Orders))
	for id, order := range state.Orders {
		index[order.Address] = id
	}
	return index
}

func srContains(srs [untronstate.SRCount][20]byte, addr [20]byte) bool {
	for _, sr := range srs {
		if sr == addr {
			return true
		}
	}
	return false
}

func promoteDueActions(state *untronstate.State, activeAddresses map[[20]byte][32]byte, closedOrders *[]untronstate.ClosedOrder, blockTimestamp uint64) error {
	for {
		if len(state.PendingActions) == 0 {
			return ErrNoPendingSentinel
		}
		pa := state.PendingActions[0]
		if pa.Action.Timestamp > blockTimestamp {
			return nil
		}
		state.PendingActions = state.PendingActions[1:]

		if existingID, ok := activeAddresses[pa.Action.Address]; ok {
			if order, ok2 := state.Orders[existingID]; ok2 {
				*closedOrders = append(*closedOrders, untronstate.ClosedOrder{ActionID: existingID, Order: order})
				delete(state.Orders, existingID)
			}
			delete(activeAddresses, pa.Action.Address)
			continue
		}

		order := untronstate.OrderState{
			Address:    pa.Action.Address,
			Timestamp:  pa.Action.Timestamp,
			Inflow:     0,
			MinDeposit: pa.Action.MinDeposit,
			Size:       pa.Action.Size,
		}
		state.Orders[pa.ActionID] = order
		activeAddresses[pa.Action.Address] = pa.ActionID
	}
}

func sweepExpiredOrders(state *untronstate.State, activeAddresses map[[20]byte][32]byte, closedOrders *[]untronstate.ClosedOrder, blockTimestamp uint64) {
	ids := make([][32]byte, 0, len(state.Orders))
	for id := range state.Orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return lessBytes(ids[i][:], ids[j][:]) })

	for _, id := range ids {
		order, ok := state.Orders[id]
		if !ok {
			continue
		}
		if blockTimestamp > order.Timestamp+wireconst.OrderTTL*wireconst.BlockTimeMillis {
			*closedOrders = append(*closedOrders, untronstate.ClosedOrder{ActionID: id, Order: order})
			delete(state.Orders, id)
			delete(activeAddresses, order.Address)
		}
	}
}

func scanContent(state *untronstate.State, activeAddresses map[[20]byte][32]byte, closedOrders *[]untronstate.ClosedOrder, txs [][]byte) error {
	for _, tx := range txs {
		if transfer, ok := trontx.ParseTransfer(tx); ok {
			orderID, ok := activeAddresses[transfer.To]
			if !ok {
				continue
			}
			order, ok := state.Orders[orderID]
			if !ok {
				continue
			}
			if transfer.Value < order.MinDeposit {
				continue
			}
			newInflow := order.Inflow + transfer.Value
			if newInflow < order.Inflow {
				return ErrInflowOverflow
			}
			order.Inflow = newInflow
			if order.Inflow >= order.Size {
				*closedOrders = append(*closedOrders, untronstate.ClosedOrder{ActionID: orderID, Order: order})
				delete(state.Orders, orderID)
				delete(activeAddresses, order.Address)
			} else {
				state.Orders[orderID] = order
			}
			continue
		}

		if vote, ok := trontx.ParseVote(tx); ok {
			for _, v := range vote.Votes {
				state.Votes[v.WitnessAddress] += v.VotesCount
			}
		}
	}
	return nil
}

func runMaintenanceIfDue(state *untronstate.State) error {
	blockNumber := int64(tronchain.BlockNumber(state.LatestBlockID))
	diff := blockNumber - int64(wireconst.MaintenanceOffset)
	interval := int64(wireconst.MaintenanceInterval)
	m := diff % interval
	if m < 0 {
		m += interval
	}
	if m != 0 {
		return nil
	}

	type voteEntry struct {
		addr  [20]byte
		count uint64
	}
	entries := make([]voteEntry, 0, len(state.Votes))
	for addr, count := range state.Votes {
		entries = append(entries, voteEntry{addr: addr, count: count})
	}
	sort.Slice(entries, func(i, j int) bool { return lessBytes(entries[i].addr[:], entries[j].addr[:]) })
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].count < entries[j].count })

	if len(entries) < untronstate.SRCount {
		return ErrInsufficientVoteCandidates
	}

	top := entries[len(entries)-untronstate.SRCount:]
	for i, e := range top {
		state.SRs[i] = e.addr
	}
	state.Cycle = nil
	state.Votes = make(map[[20]byte]uint64)
	return nil
}

func lessBytes(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
