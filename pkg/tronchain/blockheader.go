// Copyright 2025 Certen Protocol
//
// Package tronchain implements the block-header parser (C4): recovering a
// BlockHeader from a raw block-header protobuf blob, the previous block id
// supplied by the caller, and the blob's own hash.
//
// Grounded on circuit/src/protobuf.rs::parse_block_header from the original
// implementation: header fields are read positionally rather than through a
// general protobuf decoder, for the same reason pkg/wire exists (the header
// always carries exactly fields 1, 2, 3, 7 in that order).
package tronchain

import (
	"bytes"
	"errors"

	"github.com/certen/untron-stf/pkg/wire"
	"github.com/certen/untron-stf/pkg/wireconst"
)

// ErrMalformedHeader is a fatal error: the raw header bytes do not match the
// fixed field layout the source chain's block headers always use.
var ErrMalformedHeader = errors.New("tronchain: malformed block header")

// ErrPrevBlockMismatch is a fatal error: the header's embedded previous
// block id does not match the chain tip the caller supplied.
var ErrPrevBlockMismatch = errors.New("tronchain: previous block id mismatch")

// BlockHeader is the subset of a source-chain block header the STF needs.
type BlockHeader struct {
	PrevBlockID [32]byte
	NewBlockID  [32]byte
	TxRoot      [32]byte
	Timestamp   uint64
}

// ParseBlockHeader parses rawData (the header's raw_data protobuf bytes) and
// derives NewBlockID from rawDataHash (SHA-256 of rawData) by overwriting
// its first 8 bytes with the big-endian block number read from the header.
//
// rawData is expected to carry exactly four top-level fields in order:
//
//	1 VARINT  timestamp
//	2 LEN(32) tx_root
//	3 LEN(32) prev_block_id (must equal prevBlockID)
//	7 VARINT  block_number
func ParseBlockHeader(prevBlockID [32]byte, rawData []byte, rawDataHash [32]byte) (BlockHeader, error) {
	off := 0

	tag, n, err := wire.ReadTag(rawData, off)
	if err != nil || tag.WireType != wireconst.WireVarint || tag.FieldNumber != wireconst.FieldTimestamp {
		return BlockHeader{}, ErrMalformedHeader
	}
	off += n

	timestamp, n, err := wire.ReadVarint(rawData, off, 64)
	if err != nil {
		return BlockHeader{}, ErrMalformedHeader
	}
	off += n

	tag, n, err = wire.ReadTag(rawData, off)
	if err != nil || tag.WireType != wireconst.WireLen || tag.FieldNumber != wireconst.FieldTxRoot {
		return BlockHeader{}, ErrMalformedHeader
	}
	off += n
	length, n, err := wire.ReadVarint(rawData, off, 32)
	if err != nil || length != 32 {
		return BlockHeader{}, ErrMalformedHeader
	}
	off += n
	if off+32 > len(rawData) {
		return BlockHeader{}, ErrMalformedHeader
	}
	var txRoot [32]byte
	copy(txRoot[:], rawData[off:off+32])
	off += 32

	tag, n, err = wire.ReadTag(rawData, off)
	if err != nil || tag.WireType != wireconst.WireLen || tag.FieldNumber != wireconst.FieldPrevBlockID {
		return BlockHeader{}, ErrMalformedHeader
	}
	off += n
	length, n, err = wire.ReadVarint(rawData, off, 32)
	if err != nil || length != 32 {
		return BlockHeader{}, ErrMalformedHeader
	}
	off += n
	if off+32 > len(rawData) {
		return BlockHeader{}, ErrMalformedHeader
	}
	if !bytes.Equal(rawData[off:off+32], prevBlockID[:]) {
		return BlockHeader{}, ErrPrevBlockMismatch
	}
	off += 32

	tag, n, err = wire.ReadTag(rawData, off)
	if err != nil || tag.WireType != wireconst.WireVarint || tag.FieldNumber != wireconst.FieldBlockNumber {
		return BlockHeader{}, ErrMalformedHeader
	}
	off += n
	blockNumber, _, err := wire.ReadVarint(rawData, off, 64)
	if err != nil {
		return BlockHeader{}, ErrMalformedHeader
	}

	newBlockID := rawDataHash
	newBlockID[0] = byte(blockNumber >> 56)
	newBlockID[1] = byte(blockNumber >> 48)
	newBlockID[2] = byte(blockNumber >> 40)
	newBlockID[3] = byte(blockNumber >> 32)
	newBlockID[4] = byte(blockNumber >> 24)
	newBlockID[5] = byte(blockNumber >> 16)
	newBlockID[6] = byte(blockNumber >> 8)
	newBlockID[7] = byte(blockNumber)

	return BlockHeader{
		PrevBlockID: prevBlockID,
		NewBlockID:  newBlockID,
		TxRoot:      txRoot,
		Timestamp:   timestamp,
	}, nil
}

// BlockNumber extracts the block number encoded in a NewBlockID, the same
// way the source chain itself does: the first 8 bytes, big-endian.
func BlockNumber(blockID [32]byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(blockID[i])
	}
	return v
}
