// Copyright 2025 Certen Protocol
//
// Package settlementchain binds the on-settlement-chain order contract: the
// fixed ABI surface spec.md §6 and §1's non-goals describe but do not
// implement (§1 explicitly scopes out "the on-settlement-chain contract
// itself... beyond the fixed ABI surface").
//
// Hand-bound against go-ethereum's abi/bind rather than abigen-generated,
// since the contract's Solidity source is not part of this repo's inputs —
// the same bind.NewBoundContract + abi.JSON approach the teacher's own
// generated bindings (pkg/execution/contracts/anchor_v3_generated.go) expand
// into, just written directly instead of through the code generator.
package settlementchain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/certen/untron-stf/pkg/untronstate"
)

const contractABIJSON = `[
  {"type":"function","name":"openOrder","stateMutability":"nonpayable",
   "inputs":[{"name":"receiver","type":"address"},{"name":"minDeposit","type":"uint64"},
             {"name":"size","type":"uint64"},{"name":"timestamp","type":"uint64"}],
   "outputs":[]},
  {"type":"function","name":"closeOrders","stateMutability":"nonpayable",
   "inputs":[{"name":"proof","type":"bytes"},{"name":"publicValues","type":"bytes"}],
   "outputs":[]},
  {"type":"function","name":"fulfill","stateMutability":"nonpayable",
   "inputs":[{"name":"orderIds","type":"bytes32[]"},{"name":"total","type":"uint256"}],
   "outputs":[]},
  {"type":"event","name":"ActionOpened","anonymous":false,
   "inputs":[{"name":"actionId","type":"bytes32","indexed":true},
             {"name":"receiver","type":"address","indexed":false},
             {"name":"minDeposit","type":"uint64","indexed":false},
             {"name":"size","type":"uint64","indexed":false},
             {"name":"timestamp","type":"uint64","indexed":false},
             {"name":"prev","type":"bytes32","indexed":false}]}
]`

func parsedABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(contractABIJSON))
	if err != nil {
		// contractABIJSON is a fixed literal; a parse failure here is a bug
		// in this file, not a runtime condition.
		panic("settlementchain: invalid embedded ABI: " + err.Error())
	}
	return parsed
}

// Contract is a thin binding over the settlement-chain order contract.
type Contract struct {
	Address common.Address
	bound   *bind.BoundContract
}

// New binds Contract to address using backend for both calls and sends.
func New(address common.Address, backend bind.ContractBackend) *Contract {
	abiDef := parsedABI()
	return &Contract{
		Address: address,
		bound:   bind.NewBoundContract(address, abiDef, backend, backend, backend),
	}
}

// OpenOrder submits an order-open request. In production this call is made
// by settlement-chain users, not the relayer; it is exposed here so
// integration tests can drive the full listener -> Action -> STF path
// without a separate client.
func (c *Contract) OpenOrder(opts *bind.TransactOpts, receiver common.Address, minDeposit, size, timestamp uint64) (*types.Transaction, error) {
	return c.bound.Transact(opts, "openOrder", receiver, minDeposit, size, timestamp)
}

// CloseOrders submits a proof and its packed public output (pkg/entry.Run's
// output) to the on-chain verifier.
func (c *Contract) CloseOrders(opts *bind.TransactOpts, proof, publicValues []byte) (*types.Transaction, error) {
	return c.bound.Transact(opts, "closeOrders", proof, publicValues)
}

// Fulfill is out of this engine's scope (§1 Non-goals: "the fulfiller
// subsystem that pays out closed orders"). Kept so the contract surface this
// package binds is complete; it sends a transaction through the same
// Transact path as the other two calls, and nothing in this repo invokes it.
func (c *Contract) Fulfill(opts *bind.TransactOpts, orderIDs [][32]byte, total *big.Int) (*types.Transaction, error) {
	return c.bound.Transact(opts, "fulfill", orderIDs, total)
}

// ActionOpenedTopic is the event signature hash the relayer's action
// listener filters logs by.
func ActionOpenedTopic() common.Hash {
	return parsedABI().Events["ActionOpened"].ID
}

// ParseActionOpened decodes an ActionOpened log into the Action the STF
// ingestion pre-pass expects, plus the indexed action id the settlement
// chain assigned it. Prev is taken from the event's prev field as emitted;
// it is not checked here, but by pkg/stf.ingestActions against the running
// action chain.
func ParseActionOpened(log types.Log) (action untronstate.Action, actionID [32]byte, err error) {
	var decoded struct {
		Receiver  common.Address
		MinDeposit uint64
		Size      uint64
		Timestamp uint64
		Prev      [32]byte
	}
	if err = parsedABI().UnpackIntoInterface(&decoded, "ActionOpened", log.Data); err != nil {
		return untronstate.Action{}, [32]byte{}, err
	}
	if len(log.Topics) < 2 {
		return untronstate.Action{}, [32]byte{}, errMissingActionIDTopic
	}
	copy(actionID[:], log.Topics[1].Bytes())

	action = untronstate.Action{
		Prev:       decoded.Prev,
		Timestamp:  decoded.Timestamp,
		MinDeposit: decoded.MinDeposit,
		Size:       decoded.Size,
	}
	copy(action.Address[:], decoded.Receiver[:])
	return action, actionID, nil
}
