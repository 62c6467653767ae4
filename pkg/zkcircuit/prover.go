// Copyright 2025 Certen Protocol
//
// Proof generation lifecycle for EntryCommitmentCircuit: compile, one-time
// trusted setup, prove, and locally verify — the same four-step shape
// bls_zkp.BLSZKProver uses for its Groth16 circuits.
package zkcircuit

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// Entry is one closed-order commitment tuple: an action id (reduced to a
// single field element by the caller, typically the low 31 bytes of the
// 32-byte action id to stay well under the BN254 scalar field size) paired
// with its closing inflow.
type Entry struct {
	ActionID *big.Int
	Inflow   *big.Int
}

// Witness is the full private input to a single EntryCommitmentCircuit proof.
type Witness struct {
	Entries [BatchSize]Entry
}

// Proof is a generated proof plus the public values it attests to.
type Proof struct {
	groth16Proof groth16.Proof
	Root         *big.Int
	Total        *big.Int
}

// Prover compiles EntryCommitmentCircuit once and reuses the resulting keys
// for every subsequent proof.
type Prover struct {
	mu sync.RWMutex

	cs constraint.ConstraintSystem
	pk groth16.ProvingKey
	vk groth16.VerifyingKey

	initialized bool
}

// NewProver returns an uninitialized Prover. Call Initialize before use.
func NewProver() *Prover {
	return &Prover{}
}

// Initialize compiles the circuit to R1CS and runs the Groth16 trusted setup.
// This is a one-time, relatively expensive operation; callers that need
// proofs across process restarts should persist pk/vk rather than calling
// this on every startup (bls_zkp.InitializeFromKeys shows that pattern; this
// package omits it since it is an optional, rarely-exercised verifier).
func (p *Prover) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	var circuit EntryCommitmentCircuit
	cs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit)
	if err != nil {
		return fmt.Errorf("zkcircuit: compile circuit: %w", err)
	}
	p.cs = cs

	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return fmt.Errorf("zkcircuit: groth16 setup: %w", err)
	}
	p.pk = pk
	p.vk = vk

	p.initialized = true
	return nil
}

// computeRootAndTotal performs the same fold off-circuit that
// EntryCommitmentCircuit.Define performs in-circuit, so the prover can
// populate the public Root/Total assignment without a separate solver pass.
func computeRootAndTotal(w *Witness) (root, total *big.Int) {
	root = big.NewInt(0)
	total = big.NewInt(0)
	r := big.NewInt(11)
	r2 := new(big.Int).Mul(r, r)

	for _, e := range w.Entries {
		mixed := new(big.Int).Mul(e.ActionID, r)
		mixed.Add(mixed, new(big.Int).Mul(e.Inflow, r2))
		root.Add(root, mixed)
		total.Add(total, e.Inflow)
	}
	return root, total
}

// GenerateProof proves witness against the compiled circuit, returning the
// proof and the public Root/Total it attests to.
func (p *Prover) GenerateProof(witness *Witness) (*Proof, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.initialized {
		return nil, errors.New("zkcircuit: prover not initialized")
	}

	root, total := computeRootAndTotal(witness)

	assignment := &EntryCommitmentCircuit{Root: root, Total: total}
	for i, e := range witness.Entries {
		assignment.ActionIDs[i] = e.ActionID
		assignment.Inflows[i] = e.Inflow
	}

	witnessData, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("zkcircuit: create witness: %w", err)
	}

	proof, err := groth16.Prove(p.cs, p.pk, witnessData)
	if err != nil {
		return nil, fmt.Errorf("zkcircuit: generate proof: %w", err)
	}

	return &Proof{groth16Proof: proof, Root: root, Total: total}, nil
}

// VerifyProofLocally checks proof against the prover's verification key
// using only its public Root/Total values.
func (p *Prover) VerifyProofLocally(proof *Proof) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.initialized {
		return false, errors.New("zkcircuit: prover not initialized")
	}

	assignment := &EntryCommitmentCircuit{Root: proof.Root, Total: proof.Total}
	publicWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, fmt.Errorf("zkcircuit: create public witness: %w", err)
	}

	if err := groth16.Verify(proof.groth16Proof, p.vk, publicWitness); err != nil {
		return false, nil
	}
	return true, nil
}
