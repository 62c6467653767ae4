// Copyright 2025 Certen Protocol
//
// Action listener: polls the settlement chain for ActionOpened events and
// decodes them into the Actions pkg/stf expects, preserving settlement-chain
// order as spec.md §5 requires.
package relayer

import (
	"context"
	"fmt"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/certen/untron-stf/pkg/settlementchain"
	"github.com/certen/untron-stf/pkg/untronstate"
)

// ActionListener polls a settlement chain RPC endpoint for ActionOpened
// logs emitted by the order contract.
type ActionListener struct {
	backend bind.ContractFilterer
	address common.Address
	topic   common.Hash
}

// NewActionListener returns a listener filtering logs at address on backend
// (typically an *ethclient.Client, which implements bind.ContractFilterer).
func NewActionListener(backend bind.ContractFilterer, address common.Address) *ActionListener {
	return &ActionListener{
		backend: backend,
		address: address,
		topic:   settlementchain.ActionOpenedTopic(),
	}
}

// PendingAction pairs a decoded Action with the action id the settlement
// chain assigned it, the same pairing untronstate.PendingAction carries for
// the STF's ingestion pre-pass.
type PendingAction struct {
	Action   untronstate.Action
	ActionID [32]byte
}

// Poll fetches ActionOpened logs in [fromBlock, toBlock] and decodes them in
// the order the chain returns them, which for a single contract's events
// within a block range is settlement-chain order.
func (l *ActionListener) Poll(ctx context.Context, fromBlock, toBlock uint64) ([]PendingAction, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{l.address},
		Topics:    [][]common.Hash{{l.topic}},
	}

	logs, err := l.backend.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("relayer: filter ActionOpened logs: %w", err)
	}

	pending := make([]PendingAction, 0, len(logs))
	for _, lg := range logs {
		action, actionID, err := settlementchain.ParseActionOpened(lg)
		if err != nil {
			return nil, fmt.Errorf("relayer: decode ActionOpened at tx %s log %d: %w", lg.TxHash, lg.Index, err)
		}
		pending = append(pending, PendingAction{Action: action, ActionID: actionID})
	}
	return pending, nil
}
