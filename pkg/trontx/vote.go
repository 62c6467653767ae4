// Copyright 2025 Certen Protocol

package trontx

import (
	"github.com/certen/untron-stf/pkg/wire"
	"github.com/certen/untron-stf/pkg/wireconst"
)

// Vote is one (witness, votes_count) pair within a VoteWitnessContract.
type Vote struct {
	WitnessAddress [20]byte
	VotesCount     uint64
}

// VoteTx is a recognized witness-vote transaction: one voter casting votes
// across zero or more witnesses.
type VoteTx struct {
	Voter [20]byte
	Votes []Vote
}

// ParseVote recognizes a VoteWitnessContract transaction. ok is false for
// any other transaction shape; it is not an error.
func ParseVote(tx []byte) (vote VoteTx, ok bool) {
	offset, callType, ok := locateContract(tx)
	if !ok || callType != wireconst.CallTypeWitnessVote {
		return VoteTx{}, false
	}

	offset, ok = skipFieldVarintOnly(tx, offset, 2)
	if !ok {
		return VoteTx{}, false
	}

	// field 1 LEN: Any.type_url, fully skipped (content unused).
	_, offset, ok = readLenField(tx, offset, 1)
	if !ok {
		return VoteTx{}, false
	}

	offset, ok = skipFieldVarintOnly(tx, offset, 2)
	if !ok {
		return VoteTx{}, false
	}

	voterField, offset, ok := readLenField(tx, offset, 1)
	if !ok || len(voterField) != 21 {
		return VoteTx{}, false
	}
	var result VoteTx
	copy(result.Voter[:], voterField[1:]) // strip the 0x41 chain prefix

	for offset < len(tx) && tx[offset]&7 == wireconst.WireLen && tx[offset]>>3 == 2 {
		offset, ok = skipFieldVarintOnly(tx, offset, 2)
		if !ok {
			return VoteTx{}, false
		}

		witnessField, next, ok := readLenField(tx, offset, 1)
		if !ok || len(witnessField) != 21 {
			return VoteTx{}, false
		}
		offset = next

		if offset >= len(tx) || tx[offset]&7 != wireconst.WireVarint || tx[offset]>>3 != 2 {
			return VoteTx{}, false
		}
		offset++
		votesCount, n, err := wire.ReadVarint(tx, offset, 64)
		if err != nil {
			return VoteTx{}, false
		}
		offset += n

		var v Vote
		copy(v.WitnessAddress[:], witnessField[1:])
		v.VotesCount = votesCount
		result.Votes = append(result.Votes, v)
	}

	return result, true
}
