// Copyright 2025 Certen Protocol
//
// Deterministic binary codec (C6) for State, the action list, and the
// raw-block list read from the host channel. Any self-describing binary
// format is acceptable per the component's contract; this one favors fixed
// widths and explicit length prefixes over a generic serializer so the
// byte layout is auditable at a glance, the same preference the original
// circuit code shows throughout (protobuf.rs, crypto.rs) for hand-rolled,
// purpose-built encodings over reaching for a general framework.
//
// Every map in State is a Rust HashMap in the original, so before encoding
// each one is flattened into a slice sorted by its key — otherwise encoding
// the same logical state twice could produce different bytes, which would
// break both the host's old_state_hash/new_state_hash contract and anything
// that persists State as a snapshot key.
package untronstate

import (
	"encoding/binary"
	"sort"
)

func appendUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func readUint64(buf []byte, off int) (uint64, int, error) {
	if off+8 > len(buf) {
		return 0, 0, ErrTruncated
	}
	return binary.BigEndian.Uint64(buf[off : off+8]), off + 8, nil
}

func readUint32(buf []byte, off int) (uint32, int, error) {
	if off+4 > len(buf) {
		return 0, 0, ErrTruncated
	}
	return binary.BigEndian.Uint32(buf[off : off+4]), off + 4, nil
}

func readBytes(buf []byte, off, n int) ([]byte, int, error) {
	if off+n > len(buf) {
		return nil, 0, ErrTruncated
	}
	return buf[off : off+n], off + n, nil
}

// encodeActionRaw is the compact (non-ABI-padded) encoding used for state
// persistence; EncodeCanonical (ABI-padded) is reserved for action-id
// hashing only.
func encodeActionRaw(a Action) []byte {
	buf := make([]byte, 0, 76)
	buf = append(buf, a.Prev[:]...)
	buf = appendUint64(buf, a.Timestamp)
	buf = append(buf, a.Address[:]...)
	buf = appendUint64(buf, a.MinDeposit)
	buf = appendUint64(buf, a.Size)
	return buf
}

func decodeActionRaw(buf []byte, off int) (Action, int, error) {
	var a Action
	var prev []byte
	var err error
	if prev, off, err = readBytes(buf, off, 32); err != nil {
		return Action{}, 0, err
	}
	copy(a.Prev[:], prev)
	if a.Timestamp, off, err = readUint64(buf, off); err != nil {
		return Action{}, 0, err
	}
	var addr []byte
	if addr, off, err = readBytes(buf, off, 20); err != nil {
		return Action{}, 0, err
	}
	copy(a.Address[:], addr)
	if a.MinDeposit, off, err = readUint64(buf, off); err != nil {
		return Action{}, 0, err
	}
	if a.Size, off, err = readUint64(buf, off); err != nil {
		return Action{}, 0, err
	}
	return a, off, nil
}

func encodeOrderState(o OrderState) []byte {
	buf := make([]byte, 0, 44)
	buf = append(buf, o.Address[:]...)
	buf = appendUint64(buf, o.Timestamp)
	buf = appendUint64(buf, o.Inflow)
	buf = appendUint64(buf, o.MinDeposit)
	buf = appendUint64(buf, o.Size)
	return buf
}

func decodeOrderState(buf []byte, off int) (OrderState, int, error) {
	var o OrderState
	var err error
	var addr []byte
	if addr, off, err = readBytes(buf, off, 20); err != nil {
		return OrderState{}, 0, err
	}
	copy(o.Address[:], addr)
	if o.Timestamp, off, err = readUint64(buf, off); err != nil {
		return OrderState{}, 0, err
	}
	if o.Inflow, off, err = readUint64(buf, off); err != nil {
		return OrderState{}, 0, err
	}
	if o.MinDeposit, off, err = readUint64(buf, off); err != nil {
		return OrderState{}, 0, err
	}
	if o.Size, off, err = readUint64(buf, off); err != nil {
		return OrderState{}, 0, err
	}
	return o, off, nil
}

// MarshalState encodes state deterministically.
func MarshalState(s *State) []byte {
	buf := make([]byte, 0, 512)
	buf = append(buf, s.LatestBlockID[:]...)
	buf = appendUint64(buf, s.LatestTimestamp)

	buf = append(buf, byte(len(s.Cycle)))
	for _, addr := range s.Cycle {
		buf = append(buf, addr[:]...)
	}

	for _, addr := range s.SRs {
		buf = append(buf, addr[:]...)
	}

	voteAddrs := make([][20]byte, 0, len(s.Votes))
	for addr := range s.Votes {
		voteAddrs = append(voteAddrs, addr)
	}
	sort.Slice(voteAddrs, func(i, j int) bool {
		return lessAddr(voteAddrs[i], voteAddrs[j])
	})
	buf = appendUint32(buf, uint32(len(voteAddrs)))
	for _, addr := range voteAddrs {
		buf = append(buf, addr[:]...)
		buf = appendUint64(buf, s.Votes[addr])
	}

	buf = appendUint32(buf, uint32(len(s.PendingActions)))
	for _, pa := range s.PendingActions {
		buf = append(buf, encodeActionRaw(pa.Action)...)
		buf = append(buf, pa.ActionID[:]...)
	}

	orderIDs := make([][32]byte, 0, len(s.Orders))
	for id := range s.Orders {
		orderIDs = append(orderIDs, id)
	}
	sort.Slice(orderIDs, func(i, j int) bool {
		return lessID(orderIDs[i], orderIDs[j])
	})
	buf = appendUint32(buf, uint32(len(orderIDs)))
	for _, id := range orderIDs {
		buf = append(buf, id[:]...)
		buf = append(buf, encodeOrderState(s.Orders[id])...)
	}

	buf = append(buf, s.ActionChain[:]...)
	return buf
}

// UnmarshalState decodes a buffer produced by MarshalState.
func UnmarshalState(buf []byte) (*State, error) {
	s, _, err := UnmarshalStatePrefix(buf)
	return s, err
}

// UnmarshalStatePrefix decodes a State occupying the front of buf and
// reports how many bytes it consumed, so a caller reading State, then
// [Action], then [RawBlock] back-to-back off one host channel can locate
// the next value without an outer length prefix.
func UnmarshalStatePrefix(buf []byte) (*State, int, error) {
	off := 0
	var err error
	s := NewState()

	var chunk []byte
	if chunk, off, err = readBytes(buf, off, 32); err != nil {
		return nil, 0, err
	}
	copy(s.LatestBlockID[:], chunk)
	if s.LatestTimestamp, off, err = readUint64(buf, off); err != nil {
		return nil, 0, err
	}

	if off >= len(buf) {
		return nil, 0, ErrTruncated
	}
	cycleLen := int(buf[off])
	off++
	for i := 0; i < cycleLen; i++ {
		if chunk, off, err = readBytes(buf, off, 20); err != nil {
			return nil, 0, err
		}
		var addr [20]byte
		copy(addr[:], chunk)
		s.Cycle = append(s.Cycle, addr)
	}

	for i := 0; i < SRCount; i++ {
		if chunk, off, err = readBytes(buf, off, 20); err != nil {
			return nil, 0, err
		}
		copy(s.SRs[i][:], chunk)
	}

	var voteCount uint32
	if voteCount, off, err = readUint32(buf, off); err != nil {
		return nil, 0, err
	}
	for i := uint32(0); i < voteCount; i++ {
		if chunk, off, err = readBytes(buf, off, 20); err != nil {
			return nil, 0, err
		}
		var addr [20]byte
		copy(addr[:], chunk)
		var count uint64
		if count, off, err = readUint64(buf, off); err != nil {
			return nil, 0, err
		}
		s.Votes[addr] = count
	}

	var pendingCount uint32
	if pendingCount, off, err = readUint32(buf, off); err != nil {
		return nil, 0, err
	}
	for i := uint32(0); i < pendingCount; i++ {
		var action Action
		if action, off, err = decodeActionRaw(buf, off); err != nil {
			return nil, 0, err
		}
		if chunk, off, err = readBytes(buf, off, 32); err != nil {
			return nil, 0, err
		}
		var id [32]byte
		copy(id[:], chunk)
		s.PendingActions = append(s.PendingActions, PendingAction{Action: action, ActionID: id})
	}

	var orderCount uint32
	if orderCount, off, err = readUint32(buf, off); err != nil {
		return nil, 0, err
	}
	for i := uint32(0); i < orderCount; i++ {
		if chunk, off, err = readBytes(buf, off, 32); err != nil {
			return nil, 0, err
		}
		var id [32]byte
		copy(id[:], chunk)
		var order OrderState
		if order, off, err = decodeOrderState(buf, off); err != nil {
			return nil, 0, err
		}
		s.Orders[id] = order
	}

	if chunk, off, err = readBytes(buf, off, 32); err != nil {
		return nil, 0, err
	}
	copy(s.ActionChain[:], chunk)


	return s, off, nil
}

// MarshalActions encodes a slice of Action as delivered over the host
// channel (the caller fills in Prev; action ids are recomputed by the STF's
// ingestion pre-pass, not stored here).
func MarshalActions(actions []Action) []byte {
	buf := make([]byte, 0, len(actions)*76+4)
	buf = appendUint32(buf, uint32(len(actions)))
	for _, a := range actions {
		buf = append(buf, encodeActionRaw(a)...)
	}
	return buf
}

// UnmarshalActions decodes a buffer produced by MarshalActions.
func UnmarshalActions(buf []byte) ([]Action, error) {
	actions, _, err := UnmarshalActionsPrefix(buf)
	return actions, err
}

// UnmarshalActionsPrefix decodes an [Action] occupying the front of buf and
// reports how many bytes it consumed; see UnmarshalStatePrefix.
func UnmarshalActionsPrefix(buf []byte) ([]Action, int, error) {
	off := 0
	count, off, err := readUint32(buf, off)
	if err != nil {
		return nil, 0, err
	}
	actions := make([]Action, 0, count)
	for i := uint32(0); i < count; i++ {
		var a Action
		if a, off, err = decodeActionRaw(buf, off); err != nil {
			return nil, 0, err
		}
		actions = append(actions, a)
	}
	return actions, off, nil
}

// MarshalRawBlocks encodes a slice of RawBlock.
func MarshalRawBlocks(blocks []RawBlock) []byte {
	buf := make([]byte, 0, 1024)
	buf = appendUint32(buf, uint32(len(blocks)))
	for _, b := range blocks {
		buf = appendUint32(buf, uint32(len(b.RawData)))
		buf = append(buf, b.RawData...)
		buf = append(buf, b.Signature[:]...)
		buf = appendUint32(buf, uint32(len(b.Txs)))
		for _, tx := range b.Txs {
			buf = appendUint32(buf, uint32(len(tx)))
			buf = append(buf, tx...)
		}
	}
	return buf
}

// UnmarshalRawBlocks decodes a buffer produced by MarshalRawBlocks.
func UnmarshalRawBlocks(buf []byte) ([]RawBlock, error) {
	blocks, _, err := UnmarshalRawBlocksPrefix(buf)
	return blocks, err
}

// UnmarshalRawBlocksPrefix decodes a [RawBlock] occupying the front of buf
// and reports how many bytes it consumed; see UnmarshalStatePrefix.
func UnmarshalRawBlocksPrefix(buf []byte) ([]RawBlock, int, error) {
	off := 0
	count, off, err := readUint32(buf, off)
	if err != nil {
		return nil, 0, err
	}
	blocks := make([]RawBlock, 0, count)
	for i := uint32(0); i < count; i++ {
		var rawDataLen uint32
		if rawDataLen, off, err = readUint32(buf, off); err != nil {
			return nil, 0, err
		}
		var rawData []byte
		if rawData, off, err = readBytes(buf, off, int(rawDataLen)); err != nil {
			return nil, 0, err
		}
		var sigChunk []byte
		if sigChunk, off, err = readBytes(buf, off, 65); err != nil {
			return nil, 0, err
		}
		var sig [65]byte
		copy(sig[:], sigChunk)

		var txCount uint32
		if txCount, off, err = readUint32(buf, off); err != nil {
			return nil, 0, err
		}
		txs := make([][]byte, 0, txCount)
		for j := uint32(0); j < txCount; j++ {
			var txLen uint32
			if txLen, off, err = readUint32(buf, off); err != nil {
				return nil, 0, err
			}
			var tx []byte
			if tx, off, err = readBytes(buf, off, int(txLen)); err != nil {
				return nil, 0, err
			}
			txs = append(txs, append([]byte(nil), tx...))
		}

		blocks = append(blocks, RawBlock{
			RawData:   append([]byte(nil), rawData...),
			Signature: sig,
			Txs:       txs,
		})
	}
	return blocks, off, nil
}

func lessAddr(a, b [20]byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func lessID(a, b [32]byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
