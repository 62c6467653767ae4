// Copyright 2025 Certen Protocol

package tronchain

import (
	"crypto/sha256"
	"testing"
)

// encodeVarint appends a base-128 little-endian varint encoding of v to buf.
func encodeVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

func buildHeaderRawData(timestamp uint64, txRoot, prevBlockID [32]byte, blockNumber uint64) []byte {
	var buf []byte
	buf = append(buf, 1<<3|0) // field 1, varint
	buf = encodeVarint(buf, timestamp)
	buf = append(buf, 2<<3|2) // field 2, len
	buf = encodeVarint(buf, 32)
	buf = append(buf, txRoot[:]...)
	buf = append(buf, 3<<3|2) // field 3, len
	buf = encodeVarint(buf, 32)
	buf = append(buf, prevBlockID[:]...)
	buf = append(buf, 7<<3|0) // field 7, varint
	buf = encodeVarint(buf, blockNumber)
	return buf
}

func TestParseBlockHeader_HappyPath(t *testing.T) {
	prevBlockID := sha256.Sum256([]byte("prev"))
	txRoot := sha256.Sum256([]byte("txroot"))
	rawData := buildHeaderRawData(1_700_000_000, txRoot, prevBlockID, 65_000_123)
	rawDataHash := sha256.Sum256(rawData)

	hdr, err := ParseBlockHeader(prevBlockID, rawData, rawDataHash)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hdr.PrevBlockID != prevBlockID {
		t.Fatalf("prev block id mismatch")
	}
	if hdr.TxRoot != txRoot {
		t.Fatalf("tx root mismatch")
	}
	if hdr.Timestamp != 1_700_000_000 {
		t.Fatalf("timestamp mismatch: got %d", hdr.Timestamp)
	}
	if BlockNumber(hdr.NewBlockID) != 65_000_123 {
		t.Fatalf("block number mismatch: got %d", BlockNumber(hdr.NewBlockID))
	}
	// tail 24 bytes of new block id must match the hash's tail exactly.
	for i := 8; i < 32; i++ {
		if hdr.NewBlockID[i] != rawDataHash[i] {
			t.Fatalf("new block id tail diverges from raw data hash at byte %d", i)
		}
	}
}

func TestParseBlockHeader_PrevBlockMismatchIsFatal(t *testing.T) {
	prevBlockID := sha256.Sum256([]byte("prev"))
	wrongPrev := sha256.Sum256([]byte("wrong"))
	txRoot := sha256.Sum256([]byte("txroot"))
	rawData := buildHeaderRawData(1, txRoot, prevBlockID, 1)
	rawDataHash := sha256.Sum256(rawData)

	if _, err := ParseBlockHeader(wrongPrev, rawData, rawDataHash); err != ErrPrevBlockMismatch {
		t.Fatalf("expected ErrPrevBlockMismatch, got %v", err)
	}
}

func TestParseBlockHeader_TruncatedIsFatal(t *testing.T) {
	prevBlockID := sha256.Sum256([]byte("prev"))
	rawData := []byte{1 << 3}
	if _, err := ParseBlockHeader(prevBlockID, rawData, sha256.Sum256(rawData)); err == nil {
		t.Fatalf("expected an error for truncated header")
	}
}
