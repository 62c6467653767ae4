// Copyright 2025 Certen Protocol

package hashutil

import (
	"crypto/sha256"
	"testing"
)

func TestMerkleRoot_Empty(t *testing.T) {
	root := MerkleRoot(nil)
	if root != ([32]byte{}) {
		t.Fatalf("expected all-zero root, got %x", root)
	}
}

func TestMerkleRoot_SingleLeafIdentity(t *testing.T) {
	leaf := sha256.Sum256([]byte("hello"))
	root := MerkleRoot([][32]byte{leaf})
	if root != leaf {
		t.Fatalf("single-leaf root should equal the leaf: got %x want %x", root, leaf)
	}
}

func TestMerkleRoot_OddLeafPromotion(t *testing.T) {
	a := sha256.Sum256([]byte("a"))
	b := sha256.Sum256([]byte("b"))
	c := sha256.Sum256([]byte("c"))

	ab := combine(a, b)
	want := combine(ab, c)

	got := MerkleRoot([][32]byte{a, b, c})
	if got != want {
		t.Fatalf("odd-leaf promotion mismatch: got %x want %x", got, want)
	}
}

func TestMerkleRoot_DeterministicUnderFixedOrder(t *testing.T) {
	leaves := [][32]byte{
		sha256.Sum256([]byte("1")),
		sha256.Sum256([]byte("2")),
		sha256.Sum256([]byte("3")),
		sha256.Sum256([]byte("4")),
	}
	r1 := MerkleRoot(leaves)
	r2 := MerkleRoot(leaves)
	if r1 != r2 {
		t.Fatalf("merkle root must be deterministic for identical input order")
	}
}

func TestTree_ProveAndVerify(t *testing.T) {
	leaves := [][32]byte{
		sha256.Sum256([]byte("1")),
		sha256.Sum256([]byte("2")),
		sha256.Sum256([]byte("3")),
	}
	tree, err := BuildTree(leaves)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Root() != MerkleRoot(leaves) {
		t.Fatalf("tree root must match MerkleRoot")
	}
	for i, leaf := range leaves {
		proof, err := tree.Prove(i)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !VerifyInclusionProof(leaf, proof) {
			t.Errorf("inclusion proof for leaf %d failed to verify", i)
		}
	}
}

func TestTree_BuildEmpty(t *testing.T) {
	if _, err := BuildTree(nil); err != ErrEmptyTree {
		t.Fatalf("expected ErrEmptyTree, got %v", err)
	}
}

func TestAddressFromPublicKey_Length(t *testing.T) {
	var pub [64]byte
	addr := AddressFromPublicKey(pub)
	if len(addr) != 20 {
		t.Fatalf("expected 20-byte address, got %d", len(addr))
	}
}
