// Copyright 2025 Certen Protocol

package untronstate

import (
	"crypto/sha256"
	"reflect"
	"testing"
)

func TestAction_EncodeCanonical_Layout(t *testing.T) {
	var a Action
	a.Prev = sha256.Sum256([]byte("prev"))
	a.Timestamp = 0x0102030405060708
	for i := range a.Address {
		a.Address[i] = byte(i + 1)
	}
	a.MinDeposit = 1_000_000
	a.Size = 50_000_000

	enc := a.EncodeCanonical()
	if len(enc) != 160 {
		t.Fatalf("expected 160-byte encoding, got %d", len(enc))
	}
	if !reflect.DeepEqual(enc[:32], a.Prev[:]) {
		t.Fatalf("prev slot mismatch")
	}
	// timestamp slot: 24 zero bytes then 8-byte BE value
	for i := 32; i < 56; i++ {
		if enc[i] != 0 {
			t.Fatalf("expected zero padding in timestamp slot at %d", i)
		}
	}
	if enc[63] != 0x08 || enc[56] != 0x01 {
		t.Fatalf("timestamp big-endian bytes misplaced")
	}
	// address slot: 12 zero bytes then 20-byte address
	for i := 64; i < 76; i++ {
		if enc[i] != 0 {
			t.Fatalf("expected zero padding in address slot at %d", i)
		}
	}
	if !reflect.DeepEqual(enc[76:96], a.Address[:]) {
		t.Fatalf("address slot mismatch")
	}
}

func TestState_MarshalUnmarshal_RoundTrip(t *testing.T) {
	s := NewState()
	s.LatestBlockID = sha256.Sum256([]byte("block"))
	s.LatestTimestamp = 1_700_000_000_000
	s.ActionChain = sha256.Sum256([]byte("chain"))

	var p1, p2 [20]byte
	p1[0], p2[0] = 1, 2
	s.Cycle = [][20]byte{p1, p2}

	for i := range s.SRs {
		var sr [20]byte
		sr[0] = byte(i)
		s.SRs[i] = sr
	}

	var w1, w2 [20]byte
	w1[0], w2[0] = 9, 8
	s.Votes[w1] = 100
	s.Votes[w2] = 200

	action := Action{Timestamp: 42, MinDeposit: 1, Size: 2}
	actionID := sha256.Sum256(action.EncodeCanonical())
	s.PendingActions = append(s.PendingActions, PendingAction{Action: action, ActionID: actionID})

	var orderAddr [20]byte
	orderAddr[0] = 7
	orderID := sha256.Sum256([]byte("order"))
	s.Orders[orderID] = OrderState{Address: orderAddr, Timestamp: 1, Inflow: 5, MinDeposit: 1, Size: 100}

	encoded := MarshalState(s)
	decoded, err := UnmarshalState(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if decoded.LatestBlockID != s.LatestBlockID {
		t.Fatalf("latest block id mismatch")
	}
	if decoded.LatestTimestamp != s.LatestTimestamp {
		t.Fatalf("latest timestamp mismatch")
	}
	if !reflect.DeepEqual(decoded.Cycle, s.Cycle) {
		t.Fatalf("cycle mismatch: got %v want %v", decoded.Cycle, s.Cycle)
	}
	if decoded.SRs != s.SRs {
		t.Fatalf("srs mismatch")
	}
	if len(decoded.Votes) != 2 || decoded.Votes[w1] != 100 || decoded.Votes[w2] != 200 {
		t.Fatalf("votes mismatch: got %v", decoded.Votes)
	}
	if len(decoded.PendingActions) != 1 || decoded.PendingActions[0].ActionID != actionID {
		t.Fatalf("pending actions mismatch")
	}
	if decoded.PendingActions[0].Action != action {
		t.Fatalf("pending action content mismatch: got %+v want %+v", decoded.PendingActions[0].Action, action)
	}
	got, ok := decoded.Orders[orderID]
	if !ok || got != s.Orders[orderID] {
		t.Fatalf("orders mismatch")
	}
	if decoded.ActionChain != s.ActionChain {
		t.Fatalf("action chain mismatch")
	}
}

func TestState_Marshal_DeterministicAcrossMapIterationOrder(t *testing.T) {
	s1 := NewState()
	s2 := NewState()
	for i := 0; i < 10; i++ {
		var addr [20]byte
		addr[0] = byte(i)
		s1.Votes[addr] = uint64(i)
	}
	for i := 9; i >= 0; i-- {
		var addr [20]byte
		addr[0] = byte(i)
		s2.Votes[addr] = uint64(i)
	}
	if string(MarshalState(s1)) != string(MarshalState(s2)) {
		t.Fatalf("encoding must not depend on map construction order")
	}
}

func TestRawBlocks_RoundTrip(t *testing.T) {
	blocks := []RawBlock{
		{
			RawData:   []byte{1, 2, 3},
			Signature: [65]byte{1},
			Txs:       [][]byte{{0xaa}, {0xbb, 0xcc}},
		},
		{
			RawData:   []byte{},
			Signature: [65]byte{},
			Txs:       nil,
		},
	}
	encoded := MarshalRawBlocks(blocks)
	decoded, err := UnmarshalRawBlocks(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(decoded))
	}
	if !reflect.DeepEqual(decoded[0].RawData, blocks[0].RawData) {
		t.Fatalf("raw data mismatch")
	}
	if !reflect.DeepEqual(decoded[0].Txs, blocks[0].Txs) {
		t.Fatalf("txs mismatch")
	}
}

func TestActions_RoundTrip(t *testing.T) {
	actions := []Action{
		{Timestamp: 1, MinDeposit: 2, Size: 3},
		{Timestamp: 4, MinDeposit: 5, Size: 6},
	}
	encoded := MarshalActions(actions)
	decoded, err := UnmarshalActions(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(decoded, actions) {
		t.Fatalf("round-trip mismatch: got %+v want %+v", decoded, actions)
	}
}
