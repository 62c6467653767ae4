// Copyright 2025 Certen Protocol
//
// Package sigrecover implements secp256k1 ECDSA public-key recovery (C2)
// from a 65-byte r‖s‖v signature and a 32-byte prehash, with the mandatory
// low-S normalization the source chain's signatures require.
//
// Built directly on go-ethereum/crypto, the same package the rest of the
// retrieved pack reaches for whenever it needs secp256k1 recovery or
// Keccak-256 (pkg/verification/unified_verifier.go,
// pkg/execution/ethereum_contracts.go, and the Ziren zkVM guest-side crypto
// shim retrieved into other_examples all import it for exactly this).
package sigrecover

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidSignature is returned when the 65-byte signature cannot be
// parsed or public-key recovery fails.
var ErrInvalidSignature = errors.New("sigrecover: invalid signature")

// secp256k1Order is the order n of the secp256k1 group.
var secp256k1Order = func() *big.Int {
	n, ok := new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)
	if !ok {
		panic("sigrecover: bad curve order constant")
	}
	return n
}()

// secp256k1HalfOrder is n/2, the low-S/high-S boundary.
var secp256k1HalfOrder = new(big.Int).Rsh(secp256k1Order, 1)

// Recover parses sig as r(32)‖s(32)‖v(1), normalizes a high-S signature to
// low-S (flipping the recovery id's low bit to compensate, per the secp256k1
// s/(n-s) symmetry), recovers the uncompressed public key using v as the
// recovery id, and returns its 64-byte X‖Y payload (no leading 0x04 tag).
func Recover(sig [65]byte, msgHash [32]byte) ([64]byte, error) {
	var out [64]byte

	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	v := sig[64]

	if s.Cmp(secp256k1HalfOrder) > 0 {
		s = new(big.Int).Sub(secp256k1Order, s)
		v ^= 1
	}
	if v > 1 {
		return out, ErrInvalidSignature
	}

	var normalized [65]byte
	r.FillBytes(normalized[:32])
	s.FillBytes(normalized[32:64])
	normalized[64] = v

	pub, err := crypto.SigToPub(msgHash[:], normalized[:])
	if err != nil {
		return out, ErrInvalidSignature
	}

	uncompressed := crypto.FromECDSAPub(pub) // 65 bytes: 0x04 || X || Y
	if len(uncompressed) != 65 || uncompressed[0] != 0x04 {
		return out, ErrInvalidSignature
	}
	copy(out[:], uncompressed[1:])
	return out, nil
}
