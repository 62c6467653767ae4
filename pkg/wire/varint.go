// Copyright 2025 Certen Protocol
//
// Package wire implements the base-128 varint and tag-byte decoding shared by
// the block-header parser and transaction recognizers. It is hand-rolled
// rather than built on a general protobuf library: the source chain's
// transaction format has ~40 message types and the recognizers here only ever
// need to understand two of them, so a full schema-driven decoder would spend
// most of its cycles on fields nobody reads.
package wire

import "errors"

// ErrTruncated is returned when the cursor runs out of bytes mid-varint or
// mid-field.
var ErrTruncated = errors.New("wire: truncated input")

// ErrVarintOverflow is returned when a varint would not fit in the target
// width the caller requested.
var ErrVarintOverflow = errors.New("wire: varint overflow")

// ErrBadWireType is returned by Skip when it encounters a wire type other
// than varint, length-delimited, or fixed32.
var ErrBadWireType = errors.New("wire: unexpected wire type")

// ReadVarint decodes a base-128 little-endian varint starting at offset off
// in buf, returning the decoded value and the number of bytes consumed.
// maxBits bounds the width of the result (e.g. 64 for a u64 field); a varint
// that would overflow that width is a fatal ErrVarintOverflow.
func ReadVarint(buf []byte, off int, maxBits uint) (value uint64, n int, err error) {
	var shift uint
	for {
		if off+n >= len(buf) {
			return 0, 0, ErrTruncated
		}
		b := buf[off+n]
		n++
		if shift < 64 {
			value |= uint64(b&0x7f) << shift
		}
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift >= 70 {
			// more than 10 continuation bytes: not a valid 64-bit varint
			return 0, 0, ErrVarintOverflow
		}
	}
	if maxBits < 64 && value>>maxBits != 0 {
		return 0, 0, ErrVarintOverflow
	}
	return value, n, nil
}

// Tag is a decoded (field_number, wire_type) pair.
type Tag struct {
	FieldNumber int
	WireType    int
}

// ReadTag decodes the tag byte at offset off: (field_number<<3)|wire_type.
// The tag itself is always a single-byte varint in every message this parser
// handles (field numbers here never exceed 15).
func ReadTag(buf []byte, off int) (Tag, int, error) {
	if off >= len(buf) {
		return Tag{}, 0, ErrTruncated
	}
	b := buf[off]
	return Tag{FieldNumber: int(b >> 3), WireType: int(b & 7)}, 1, nil
}

// Skip advances past one field's payload given its wire type, starting right
// after the tag byte at offset off. Varint payloads are consumed as varints;
// length-delimited payloads consume their declared length; fixed32 payloads
// consume exactly 4 bytes. Any other wire type is ErrBadWireType — within a
// recognized message, an unexpected wire type is corruption, not "not for us".
func Skip(buf []byte, off int, wireType int) (n int, err error) {
	switch wireType {
	case 0: // varint
		_, vn, err := ReadVarint(buf, off, 64)
		if err != nil {
			return 0, err
		}
		return vn, nil
	case 2: // length-delimited
		length, vn, err := ReadVarint(buf, off, 32)
		if err != nil {
			return 0, err
		}
		total := vn + int(length)
		if off+total > len(buf) {
			return 0, ErrTruncated
		}
		return total, nil
	case 5: // fixed32
		if off+4 > len(buf) {
			return 0, ErrTruncated
		}
		return 4, nil
	default:
		return 0, ErrBadWireType
	}
}
