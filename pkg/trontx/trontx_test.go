// Copyright 2025 Certen Protocol

package trontx

import (
	"encoding/binary"
	"testing"

	"github.com/certen/untron-stf/pkg/wireconst"
)

func encodeVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

func lenField(buf []byte, field int, content []byte) []byte {
	buf = append(buf, byte(field<<3|2))
	buf = encodeVarint(buf, uint64(len(content)))
	return append(buf, content...)
}

func varintField(buf []byte, field int, v uint64) []byte {
	buf = append(buf, byte(field<<3|0))
	return encodeVarint(buf, v)
}

// buildTransferTx assembles a transaction recognizable by ParseTransfer,
// honoring the exact (partial-skip, full-skip) field pattern parse_usdt_transfer
// expects.
func buildTransferTx(to [20]byte, value uint64) []byte {
	data := make([]byte, 68)
	copy(data[:4], wireconst.TransferSelector[:])
	copy(data[16:36], to[:])
	var valBuf [8]byte
	binary.LittleEndian.PutUint64(valBuf[:], value)
	copy(data[60:68], valBuf[:])

	var inner []byte
	inner = lenField(inner, 2, nil) // skip-only field 2
	inner = lenField(inner, 1, nil) // skip-only field 1
	inner = lenField(inner, 2, nil) // skip-only field 2
	inner = lenField(inner, 1, nil) // skip-only field 1
	inner = lenField(inner, 2, wireconst.TokenContractAddress)
	inner = lenField(inner, 4, data)

	var contract []byte
	contract = varintField(contract, 1, wireconst.CallTypeTriggerSmartContract)
	contract = append(contract, inner...)

	var raw []byte
	raw = lenField(raw, 11, contract)

	var tx []byte
	tx = lenField(tx, 1, raw)
	tx = append(tx, wireconst.BlockSuccessMarker)
	return tx
}

func TestParseTransfer_RecognizesWellFormedTx(t *testing.T) {
	var to [20]byte
	for i := range to {
		to[i] = byte(i + 1)
	}
	tx := buildTransferTx(to, 1_000_000)

	transfer, ok := ParseTransfer(tx)
	if !ok {
		t.Fatalf("expected recognition")
	}
	if transfer.To != to {
		t.Fatalf("to mismatch: got %x want %x", transfer.To, to)
	}
	if transfer.Value != 1_000_000 {
		t.Fatalf("value mismatch: got %d", transfer.Value)
	}
}

func TestParseTransfer_RejectsWrongContract(t *testing.T) {
	var to [20]byte
	tx := buildTransferTx(to, 1)
	// flip a byte in the contract address region — find it and corrupt it.
	// Easiest: rebuild with a wrong address directly.
	wrongAddr := append([]byte(nil), wireconst.TokenContractAddress...)
	wrongAddr[len(wrongAddr)-1] ^= 0xff

	data := make([]byte, 68)
	copy(data[:4], wireconst.TransferSelector[:])
	var inner []byte
	inner = lenField(inner, 2, nil)
	inner = lenField(inner, 1, nil)
	inner = lenField(inner, 2, nil)
	inner = lenField(inner, 1, nil)
	inner = lenField(inner, 2, wrongAddr)
	inner = lenField(inner, 4, data)
	var contract []byte
	contract = varintField(contract, 1, wireconst.CallTypeTriggerSmartContract)
	contract = append(contract, inner...)
	var raw []byte
	raw = lenField(raw, 11, contract)
	tx = lenField(nil, 1, raw)
	tx = append(tx, wireconst.BlockSuccessMarker)

	if _, ok := ParseTransfer(tx); ok {
		t.Fatalf("expected rejection for wrong contract address")
	}
}

func TestParseTransfer_RejectsFailedTx(t *testing.T) {
	var to [20]byte
	tx := buildTransferTx(to, 1)
	tx[len(tx)-1] = 0x00 // not the success marker
	if _, ok := ParseTransfer(tx); ok {
		t.Fatalf("expected rejection for non-success transaction")
	}
}

// buildVoteTx assembles a transaction recognizable by ParseVote.
func buildVoteTx(voter [20]byte, votes []Vote) []byte {
	var inner []byte
	inner = lenField(inner, 2, nil) // skip-only field 2 (Any.value wrapper entry)

	voterBytes := append([]byte{0x41}, voter[:]...)
	var payload []byte
	payload = lenField(payload, 1, nil) // Any.type_url, content unvalidated
	payload = lenField(payload, 2, nil) // skip-only field 2
	payload = lenField(payload, 1, voterBytes)
	for _, v := range votes {
		var voteMsg []byte
		witnessBytes := append([]byte{0x41}, v.WitnessAddress[:]...)
		voteMsg = lenField(voteMsg, 1, witnessBytes)
		voteMsg = varintField(voteMsg, 2, v.VotesCount)
		payload = lenField(payload, 2, voteMsg)
	}
	inner = append(inner, payload...)

	var contract []byte
	contract = varintField(contract, 1, wireconst.CallTypeWitnessVote)
	contract = append(contract, inner...)

	var raw []byte
	raw = lenField(raw, 11, contract)

	var tx []byte
	tx = lenField(tx, 1, raw)
	tx = append(tx, wireconst.BlockSuccessMarker)
	return tx
}

func TestParseVote_RecognizesWellFormedTx(t *testing.T) {
	var voter [20]byte
	for i := range voter {
		voter[i] = byte(i + 10)
	}
	var w1, w2 [20]byte
	for i := range w1 {
		w1[i] = byte(i + 1)
		w2[i] = byte(i + 2)
	}
	votes := []Vote{
		{WitnessAddress: w1, VotesCount: 500},
		{WitnessAddress: w2, VotesCount: 1500},
	}
	tx := buildVoteTx(voter, votes)

	got, ok := ParseVote(tx)
	if !ok {
		t.Fatalf("expected recognition")
	}
	if got.Voter != voter {
		t.Fatalf("voter mismatch: got %x want %x", got.Voter, voter)
	}
	if len(got.Votes) != 2 {
		t.Fatalf("expected 2 votes, got %d", len(got.Votes))
	}
	for i, v := range votes {
		if got.Votes[i] != v {
			t.Fatalf("vote %d mismatch: got %+v want %+v", i, got.Votes[i], v)
		}
	}
}

func TestParseVote_RejectsNonVoteCallType(t *testing.T) {
	var voter [20]byte
	tx := buildVoteTx(voter, nil)
	// corrupt the call_type by rebuilding with the transfer call type instead.
	var inner []byte
	inner = lenField(inner, 2, nil)
	voterBytes := append([]byte{0x41}, voter[:]...)
	var payload []byte
	payload = lenField(payload, 1, nil)
	payload = lenField(payload, 2, nil)
	payload = lenField(payload, 1, voterBytes)
	inner = append(inner, payload...)
	var contract []byte
	contract = varintField(contract, 1, wireconst.CallTypeTriggerSmartContract)
	contract = append(contract, inner...)
	var raw []byte
	raw = lenField(raw, 11, contract)
	tx = lenField(nil, 1, raw)
	tx = append(tx, wireconst.BlockSuccessMarker)

	if _, ok := ParseVote(tx); ok {
		t.Fatalf("expected rejection for non-vote call type")
	}
}
