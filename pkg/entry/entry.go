// Copyright 2025 Certen Protocol
//
// Package entry implements the host-channel entry point and public-output
// commitment (C8): the one function both the zk-guest binary and the
// relayer's local reconstruction path call to read a State plus a batch of
// actions and blocks, run the state transition function over them, and
// produce the packed public output the on-settlement-chain verifier checks.
//
// Grounded on spec.md §4.7 and the original implementation's guest entry
// point (program/src/lib.rs's `main`, which performs the same
// read-hash-run-hash-pack sequence around its own stf() call).
package entry

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/certen/untron-stf/pkg/stf"
	"github.com/certen/untron-stf/pkg/untronstate"
)

// Run reads a serialized State, then a serialized [Action], then a
// serialized [RawBlock] from in (in that order, back-to-back with no outer
// framing), advances the state via the state transition function, and
// writes the packed public output to out.
//
// A non-nil error means the input was malformed or the state transition
// itself was fatal; out is not written to in that case.
func Run(in io.Reader, out io.Writer) error {
	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("entry: reading host channel: %w", err)
	}

	state, n, err := untronstate.UnmarshalStatePrefix(raw)
	if err != nil {
		return fmt.Errorf("entry: decoding state: %w", err)
	}
	oldStateHash := sha256.Sum256(raw[:n])
	raw = raw[n:]

	actions, n, err := untronstate.UnmarshalActionsPrefix(raw)
	if err != nil {
		return fmt.Errorf("entry: decoding actions: %w", err)
	}
	raw = raw[n:]

	blocks, _, err := untronstate.UnmarshalRawBlocksPrefix(raw)
	if err != nil {
		return fmt.Errorf("entry: decoding raw blocks: %w", err)
	}

	oldBlockID := state.LatestBlockID
	oldActionChain := state.ActionChain

	closedOrders, err := stf.Run(state, actions, blocks)
	if err != nil {
		return fmt.Errorf("entry: state transition: %w", err)
	}

	newStateHash := sha256.Sum256(untronstate.MarshalState(state))

	output := make([]byte, 0, 6*32+32+len(closedOrders)*64)
	output = append(output, oldBlockID[:]...)
	output = append(output, state.LatestBlockID[:]...)
	output = append(output, oldActionChain[:]...)
	output = append(output, state.ActionChain[:]...)
	output = append(output, oldStateHash[:]...)
	output = append(output, newStateHash[:]...)
	output = appendUint256(output, uint64(len(closedOrders)))
	for _, co := range closedOrders {
		output = append(output, co.ActionID[:]...)
		output = appendUint256(output, co.Order.Inflow)
	}

	if _, err := out.Write(output); err != nil {
		return fmt.Errorf("entry: writing public output: %w", err)
	}
	return nil
}

// appendUint256 appends v as a 32-byte big-endian, zero-padded integer.
func appendUint256(buf []byte, v uint64) []byte {
	var slot [32]byte
	binary.BigEndian.PutUint64(slot[24:], v)
	return append(buf, slot[:]...)
}
