// Copyright 2025 Certen Protocol
//
// Package untronstate defines the data model the STF operates on — Action,
// OrderState, State, RawBlock, ClosedOrder — and their deterministic binary
// encoding (C6).
//
// Struct shapes are ported directly from the original implementation's
// program/src/lib.rs (Action, OrderState, State, RawBlock); the `votes` and
// `orders` maps there are Rust HashMaps, so every encode here sorts keys
// first, the same discipline pkg/commitment/commitment.go applies to JSON
// object keys before hashing.
package untronstate

// Action is an open-order request originating on the settlement chain,
// linked to its predecessor by a running hash chain.
type Action struct {
	Prev       [32]byte
	Timestamp  uint64
	Address    [20]byte
	MinDeposit uint64
	Size       uint64
}

// EncodeCanonical returns the 160-byte ABI-style encoding used to derive an
// action's id: each field placed in its own 32-byte slot, integers
// right-aligned big-endian and the address right-aligned (Solidity-ABI
// convention), matching the original's Action::abi_encode byte-for-byte.
func (a Action) EncodeCanonical() []byte {
	out := make([]byte, 0, 160)
	out = append(out, a.Prev[:]...)

	var slot [32]byte
	putUint64Slot(&slot, a.Timestamp)
	out = append(out, slot[:]...)

	slot = [32]byte{}
	copy(slot[12:], a.Address[:])
	out = append(out, slot[:]...)

	slot = [32]byte{}
	putUint64Slot(&slot, a.MinDeposit)
	out = append(out, slot[:]...)

	slot = [32]byte{}
	putUint64Slot(&slot, a.Size)
	out = append(out, slot[:]...)

	return out
}

func putUint64Slot(slot *[32]byte, v uint64) {
	for i := 0; i < 8; i++ {
		slot[31-i] = byte(v >> (8 * i))
	}
}

// PendingAction is an action awaiting promotion, paired with the action-id
// computed when it was ingested.
type PendingAction struct {
	Action   Action
	ActionID [32]byte
}

// OrderState is the live state of one active order.
type OrderState struct {
	Address    [20]byte
	Timestamp  uint64
	Inflow     uint64
	MinDeposit uint64
	Size       uint64
}

// ClosedOrder pairs a closed order with the action id it was created under.
type ClosedOrder struct {
	ActionID [32]byte
	Order    OrderState
}

// CycleWindow bounds the number of most-recent block producers tracked.
const CycleWindow = 19

// SRCount is the fixed size of the validator set.
const SRCount = 27

// State is the STF's entire persistent state, held in memory between
// invocations and (for the relayer) snapshotted via pkg/snapshot.
type State struct {
	LatestBlockID   [32]byte
	LatestTimestamp uint64
	Cycle           [][20]byte // most recent producers, oldest at index 0, len <= CycleWindow
	SRs             [SRCount][20]byte
	Votes           map[[20]byte]uint64
	PendingActions  []PendingAction
	Orders          map[[32]byte]OrderState // keyed by action id
	ActionChain     [32]byte
}

// NewState returns an empty, zero-valued State ready for the genesis STF
// call.
func NewState() *State {
	return &State{
		Votes:  make(map[[20]byte]uint64),
		Orders: make(map[[32]byte]OrderState),
	}
}

// RawBlock is one source-chain block as delivered to the STF: its raw
// header bytes, producer signature, and transaction bodies.
type RawBlock struct {
	RawData   []byte
	Signature [65]byte
	Txs       [][]byte
}
