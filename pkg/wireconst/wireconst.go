// Copyright 2025 Certen Protocol
//
// Package wireconst holds the consensus-critical wire constants shared by the
// block-header parser, transaction parser, and STF. Every value here is fixed
// by the source chain and must never be derived or guessed at runtime.
package wireconst

import "encoding/hex"

// Protobuf-style wire types recognized by the field reader (pkg/wire).
const (
	WireVarint = 0
	WireLen    = 2
	WireFixed  = 5
)

// Block-header field numbers (C4).
const (
	FieldTimestamp    = 1
	FieldTxRoot       = 2
	FieldPrevBlockID  = 3
	FieldBlockNumber  = 7
)

// Transaction contract call types (C5).
const (
	CallTypeTriggerSmartContract = 31
	CallTypeWitnessVote          = 4
)

// BlockSuccessMarker is the trailing byte a finalized, successful transaction
// must carry. Anything else is not recognized.
const BlockSuccessMarker = 0x01

// TransferSelector is the 4-byte ABI selector for transfer(address,uint256).
var TransferSelector = [4]byte{0xa9, 0x05, 0x9c, 0xbb}

// TokenContractAddress is the 21-byte (1-byte chain prefix + 20-byte) USDT TRC20
// contract address the token-transfer recognizer requires an exact match against.
var TokenContractAddress = mustHex("41a614f803b6fd780986a42c78ec9c7f77e6ded13c")

// Consensus-critical numeric constants (spec.md §6).
const (
	OrderTTL            = 100  // blocks
	BlockTimeMillis     = 3000 // ms
	MaintenanceOffset   = 1387 // empirically pinned; see DESIGN.md
	MaintenanceInterval = 7198
	CycleWindow         = 19
	SRCount             = 27
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
