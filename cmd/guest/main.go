// Copyright 2025 Certen Protocol
//
// cmd/guest is the zk-guest binary: it wraps pkg/entry.Run around stdin/
// stdout, the host channel a zkVM wraps around guest I/O (grounded on
// _examples/original_source/program/src/main.rs's sp1_zkvm::io read/commit
// calls, which play the same role for the original SP1 guest). This
// repository does not bind the Ziren zkVM runtime package that appears in
// the teacher's go.mod — see DESIGN.md for why — so this binary runs the
// same deterministic core a zkVM would wrap, against plain stdin/stdout,
// which is sufficient to exercise and test the core outside a prover.
package main

import (
	"bufio"
	"log"
	"os"

	"github.com/certen/untron-stf/pkg/entry"
)

func main() {
	log.SetFlags(0)

	in := bufio.NewReader(os.Stdin)
	out := bufio.NewWriter(os.Stdout)

	if err := entry.Run(in, out); err != nil {
		log.Fatalf("guest: %v", err)
	}

	if err := out.Flush(); err != nil {
		log.Fatalf("guest: flushing output: %v", err)
	}
}
