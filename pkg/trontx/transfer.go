// Copyright 2025 Certen Protocol

package trontx

import (
	"bytes"
	"encoding/binary"

	"github.com/certen/untron-stf/pkg/wireconst"
)

// Transfer is a recognized USDT TRC20 transfer() call.
type Transfer struct {
	To    [20]byte
	Value uint64
}

// ParseTransfer recognizes a TriggerSmartContract transaction calling
// transfer() on the source chain's USDT contract. ok is false for any other
// transaction shape; it is not an error.
func ParseTransfer(tx []byte) (transfer Transfer, ok bool) {
	offset, callType, ok := locateContract(tx)
	if !ok || callType != wireconst.CallTypeTriggerSmartContract {
		return Transfer{}, false
	}

	offset, ok = skipFieldVarintOnly(tx, offset, 2)
	if !ok {
		return Transfer{}, false
	}
	offset, ok = skipFieldVarintOnly(tx, offset, 1)
	if !ok {
		return Transfer{}, false
	}
	offset, ok = skipFieldVarintOnly(tx, offset, 2)
	if !ok {
		return Transfer{}, false
	}
	offset, ok = skipFieldVarintOnly(tx, offset, 1)
	if !ok {
		return Transfer{}, false
	}

	contractAddr, offset, ok := readLenField(tx, offset, 2)
	if !ok || !bytes.Equal(contractAddr, wireconst.TokenContractAddress[:]) {
		return Transfer{}, false
	}

	data, _, ok := readLenField(tx, offset, 4)
	if !ok || len(data) < 68 {
		return Transfer{}, false
	}
	if !bytes.Equal(data[:4], wireconst.TransferSelector[:]) {
		return Transfer{}, false
	}

	var out Transfer
	copy(out.To[:], data[16:36])
	out.Value = binary.LittleEndian.Uint64(data[60:68])
	return out, true
}
