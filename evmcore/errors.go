// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package evmcore

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
)

// List of evm-call-message pre-checking errors. All state transition messages will
// be pre-checked before execution. If any invalidation detected, the corresponding
// error should be returned which is defined here.
//
// - If the pre-checking happens in the miner, then the transaction won't be packed.
// - If the pre-checking happens in the block processing procedure, then a "BAD BLOCk"
// error should be emitted.
var (
	// ErrNonceTooLow is returned if the nonce of a transaction is lower than the
	// one present in the local chain.
	ErrNonceTooLow = errors.New("nonce too low")

	// ErrNonceTooHigh is returned if the nonce of a transaction is higher than the
	// next one expected based on the local chain.
	ErrNonceTooHigh = errors.New("nonce too high")

	// ErrGasLimitReached is returned by the gas pool if the amount of gas required
	// by a transaction is higher than what's left in the block.
	ErrGasLimitReached = errors.New("gas limit reached")

	// ErrInsufficientFunds is returned if the total cost of executing a transaction
	// is higher than the balance of the user's account.
	ErrInsufficientFunds = errors.New("insufficient funds for gas * price + value")

	// ErrGasUintOverflow is returned when calculating gas usage.
	ErrGasUintOverflow = errors.New("gas uint64 overflow")

	// ErrIntrinsicGas is returned if the transaction is specified to use less gas
	// than required to start the invocation.
	ErrIntrinsicGas = errors.New("intrinsic gas too low")

	// ErrSenderNoEOA is returned if the sender of a transaction is a contract.
	ErrSenderNoEOA = errors.New("sender not an eoa")

	// ErrLedgerClosed is returned by a ledger after Close.
	ErrLedgerClosed = errors.New("ledger closed")

	// ErrReceiptNotFound is returned for transactions the ledger doesn't know
	// or no longer caches.
	ErrReceiptNotFound = errors.New("receipt not found")
)

// ExecutionError reports a transaction or call that was executed but failed
// inside the VM. The state effects of the failed call are rolled back.
type ExecutionError struct {
	Err  error
	Data []byte
}

func (e *ExecutionError) Error() string {
	if reason := e.Reason(); reason != "" {
		return fmt.Sprintf("%v: %v", e.Err, reason)
	}
	if len(e.Data) != 0 {
		return fmt.Sprintf("%v: %v", e.Err, hexutil.Encode(e.Data))
	}
	return e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Reason returns the decoded Error(string) revert reason, if any.
func (e *ExecutionError) Reason() string {
	if e.Err != vm.ErrExecutionReverted {
		return ""
	}
	reason, err := abi.UnpackRevert(e.Data)
	if err != nil {
		return ""
	}
	return reason
}
