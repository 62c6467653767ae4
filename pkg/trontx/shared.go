// Copyright 2025 Certen Protocol
//
// Package trontx implements the token-transfer and witness-vote transaction
// recognizers (C5): picking a TriggerSmartContract USDT transfer() call or a
// VoteWitnessContract vote out of an arbitrary transaction's raw bytes,
// ignoring everything else. Recognition failure is NOT an error — most
// transactions on the source chain are neither, and the STF simply skips
// them.
//
// Ported field-for-field from circuit/src/protobuf.rs::parse_usdt_transfer
// and ::parse_vote_tx in the original implementation. The byte-offset
// arithmetic below looks unlike a general protobuf walk because it isn't
// one: each step advances past exactly the field this transaction type is
// known to carry at that position, the same shortcut the original took to
// avoid pulling in a full protobuf library for paths only two call types
// ever use.
package trontx

import (
	"github.com/certen/untron-stf/pkg/wire"
	"github.com/certen/untron-stf/pkg/wireconst"
)

// locateContract walks a transaction's bytes up to and including its single
// Contract entry's call_type field, returning the offset immediately after
// call_type and the call_type value itself. ok is false if tx does not have
// the expected shape (not a successful, singly-contracted transaction).
func locateContract(tx []byte) (offset int, callType uint64, ok bool) {
	if len(tx) == 0 || tx[len(tx)-1] != wireconst.BlockSuccessMarker {
		return 0, 0, false
	}

	if tx[0]&7 != wireconst.WireLen || tx[0]>>3 != 1 {
		return 0, 0, false
	}
	_, n, err := wire.ReadVarint(tx, 0, 64)
	if err != nil {
		return 0, 0, false
	}
	offset = n + 1

	for {
		if offset >= len(tx) {
			return 0, 0, false
		}
		t := tx[offset]
		if t == 0x5a { // field 11, LEN: the repeated `contract` entry
			break
		}
		offset++
		if t&7 == 5 {
			offset += 4
		} else {
			length, v, err := wire.ReadVarint(tx, offset, 64)
			if err != nil {
				return 0, 0, false
			}
			offset += v
			if t&7 == wireconst.WireLen {
				offset += int(length)
			}
		}
	}

	if offset >= len(tx) || tx[offset]&7 != wireconst.WireLen || tx[offset]>>3 != 11 {
		return 0, 0, false
	}
	offset++
	_, n, err = wire.ReadVarint(tx, offset, 64)
	if err != nil {
		return 0, 0, false
	}
	offset += n

	if offset >= len(tx) || tx[offset]&7 != wireconst.WireVarint || tx[offset]>>3 != 1 {
		return 0, 0, false
	}
	offset++
	callType, n, err = wire.ReadVarint(tx, offset, 64)
	if err != nil {
		return 0, 0, false
	}
	offset += n

	return offset, callType, true
}

// skipFieldVarintOnly advances past a LEN field's tag and length varint
// without skipping the length bytes themselves, landing inside the nested
// message the field wraps. Mirrors the original's own (intentional) partial
// skip used to walk into the Any/parameter wrapper around a contract's
// typed payload.
func skipFieldVarintOnly(tx []byte, offset int, wantField int) (int, bool) {
	if offset >= len(tx) || tx[offset]&7 != wireconst.WireLen || int(tx[offset]>>3) != wantField {
		return 0, false
	}
	offset++
	_, n, err := wire.ReadVarint(tx, offset, 64)
	if err != nil {
		return 0, false
	}
	return offset + n, true
}

// readLenField reads a LEN field's tag and length, returning the byte slice
// of its content and the offset immediately following it.
func readLenField(tx []byte, offset int, wantField int) (content []byte, next int, ok bool) {
	if offset >= len(tx) || tx[offset]&7 != wireconst.WireLen || int(tx[offset]>>3) != wantField {
		return nil, 0, false
	}
	offset++
	length, n, err := wire.ReadVarint(tx, offset, 64)
	if err != nil {
		return nil, 0, false
	}
	offset += n
	end := offset + int(length)
	if end > len(tx) {
		return nil, 0, false
	}
	return tx[offset:end], end, true
}
