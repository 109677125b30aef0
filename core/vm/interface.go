// Copyright 2024 The go-u2u Authors
// This file is part of the go-u2u library.
//
// The go-u2u library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-u2u library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-u2u library. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

// StateDB is the part of the world state the native host reads and mutates.
// *state.StateDB from go-ethereum satisfies it.
type StateDB interface {
	CreateAccount(common.Address)

	SubBalance(common.Address, *uint256.Int)
	AddBalance(common.Address, *uint256.Int)
	GetBalance(common.Address) *uint256.Int

	GetNonce(common.Address) uint64
	SetNonce(common.Address, uint64)

	GetCodeHash(common.Address) common.Hash
	GetCode(common.Address) []byte
	SetCode(common.Address, []byte)
	GetCodeSize(common.Address) int

	GetState(common.Address, common.Hash) common.Hash
	SetState(common.Address, common.Hash, common.Hash)

	// Exist reports whether the given account exists in state.
	Exist(common.Address) bool

	Snapshot() int
	RevertToSnapshot(int)

	AddLog(*types.Log)
}

// NativeContract is contract logic implemented in Go. The contract frame
// carries the storage address, the caller, the value and the remaining gas;
// implementations charge gas through the frame and touch state only through
// the metered EVM helpers.
//
// A returned error aborts the frame. Returning ErrExecutionReverted together
// with data reverts with that data as the revert payload.
type NativeContract interface {
	Run(evm *EVM, contract *Contract) (ret []byte, err error)
}

// Constructor is implemented by native contracts that initialise storage when
// they are created. contract.Input holds the constructor arguments.
type Constructor interface {
	Construct(evm *EVM, contract *Contract) (ret []byte, err error)
}

type (
	// CanTransferFunc is the signature of a transfer guard function
	CanTransferFunc func(StateDB, common.Address, *uint256.Int) bool
	// TransferFunc is the signature of a transfer function
	TransferFunc func(StateDB, common.Address, common.Address, *uint256.Int)
)
