// Copyright 2025 Certen Protocol

package stf

import "errors"

// All of these are fatal: per the original's own discipline (assert! / panic!
// on any consensus or shape violation), the STF does not attempt partial
// success or recovery. A non-nil error here means the entire invocation is
// void — in the zk-guest context the proof never gets produced; in the
// native relayer context the caller must not commit the mutated State.
var (
	ErrActionChainMismatch       = errors.New("stf: action.prev does not match the running action chain")
	ErrTooFewBlocks              = errors.New("stf: fewer than ORDER_TTL+20 blocks supplied")
	ErrSignatureRecovery         = errors.New("stf: block signature recovery failed")
	ErrProducerNotSR             = errors.New("stf: block producer is not a super representative")
	ErrDuplicateInCycle          = errors.New("stf: block producer already signed within the cycle window")
	ErrNoPendingSentinel         = errors.New("stf: no pending action remains after promotion")
	ErrMerkleMismatch            = errors.New("stf: transaction merkle root does not match block header")
	ErrInsufficientVoteCandidates = errors.New("stf: fewer than SR_COUNT distinct vote candidates at maintenance period")
	ErrInflowOverflow            = errors.New("stf: order inflow addition overflowed")
)
