// Copyright 2025 Certen Protocol
//
// Package hashutil implements the hashing, address-derivation, and Merkle
// primitives (C1) shared by the block-header parser, transaction parser, and
// STF.
package hashutil

import (
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/crypto"
)

// SHA256 returns the SHA-256 digest of data.
func SHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// Keccak256 returns the Keccak-256 digest of data. Used only for address
// derivation (public key -> source-chain address), never for block/tx/action
// hashing, which is SHA-256 throughout.
func Keccak256(data []byte) [32]byte {
	var out [32]byte
	copy(out[:], crypto.Keccak256(data))
	return out
}

// AddressFromPublicKey derives a 20-byte source-chain address from a 64-byte
// uncompressed secp256k1 public key (X||Y, no leading 0x04 tag byte): the
// last 20 bytes of Keccak-256(public_key).
func AddressFromPublicKey(pubKey [64]byte) [20]byte {
	h := Keccak256(pubKey[:])
	var addr [20]byte
	copy(addr[:], h[12:])
	return addr
}

// MerkleRoot computes the plain binary Merkle root over leaves by pairwise
// SHA-256 combination, promoting an odd trailing leaf unchanged to the next
// level. An empty leaf set yields the all-zero root.
func MerkleRoot(leaves [][32]byte) [32]byte {
	if len(leaves) == 0 {
		return [32]byte{}
	}
	level := make([][32]byte, len(leaves))
	copy(level, leaves)
	for len(level) > 1 {
		next := make([][32]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, combine(level[i], level[i+1]))
			} else {
				next = append(next, level[i])
			}
		}
		level = next
	}
	return level[0]
}

func combine(left, right [32]byte) [32]byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return sha256.Sum256(buf)
}
