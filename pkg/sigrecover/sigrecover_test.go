// Copyright 2025 Certen Protocol

package sigrecover

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/certen/untron-stf/pkg/hashutil"
)

func TestRecover_SignThenRecoverIsLeftInverseOfAddressDerivation(t *testing.T) {
	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("key generation failed: %v", err)
	}
	wantAddr := crypto.PubkeyToAddress(priv.PublicKey)

	var msgHash [32]byte
	copy(msgHash[:], crypto.Keccak256([]byte("settlement entry")))

	sig, err := crypto.Sign(msgHash[:], priv)
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}
	var sigArr [65]byte
	copy(sigArr[:], sig)

	pub, err := Recover(sigArr, msgHash)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gotAddr := hashutil.AddressFromPublicKey(pub)
	if [20]byte(wantAddr) != gotAddr {
		t.Fatalf("recovered address mismatch: got %x want %x", gotAddr, wantAddr.Bytes())
	}
}

func TestRecover_HighSNormalizesToSameAddress(t *testing.T) {
	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("key generation failed: %v", err)
	}
	wantAddr := crypto.PubkeyToAddress(priv.PublicKey)

	var msgHash [32]byte
	copy(msgHash[:], crypto.Keccak256([]byte("high-s case")))

	sig, err := crypto.Sign(msgHash[:], priv)
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	// Flip the signature into its high-S form: s' = n - s, v' = v ^ 1.
	s := new(big.Int).SetBytes(sig[32:64])
	sHigh := new(big.Int).Sub(secp256k1Order, s)
	var flipped [65]byte
	copy(flipped[:32], sig[:32])
	sHigh.FillBytes(flipped[32:64])
	flipped[64] = sig[64] ^ 1

	if flipped[32] < 0x80 {
		t.Fatalf("test construction error: expected a high-S value")
	}

	pub, err := Recover(flipped, msgHash)
	if err != nil {
		t.Fatalf("unexpected error recovering high-S signature: %v", err)
	}
	gotAddr := hashutil.AddressFromPublicKey(pub)
	if [20]byte(wantAddr) != gotAddr {
		t.Fatalf("high-S normalization produced wrong address: got %x want %x", gotAddr, wantAddr.Bytes())
	}
}

func TestRecover_InvalidRecoveryID(t *testing.T) {
	var sig [65]byte
	_, _ = rand.Read(sig[:64])
	sig[64] = 4 // out of {0,1,2,3} range entirely, and definitely invalid post-normalization
	var msgHash [32]byte
	_, _ = rand.Read(msgHash[:])

	if _, err := Recover(sig, msgHash); err != ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}
