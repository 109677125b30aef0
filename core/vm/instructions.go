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
)

// SLoad reads a storage word of the frame's storage account.
func (evm *EVM) SLoad(contract *Contract, key common.Hash) (common.Hash, error) {
	if !contract.UseGas(SloadGas) {
		return common.Hash{}, ErrOutOfGas
	}
	return evm.StateDB.GetState(contract.Address(), key), nil
}

// SStore writes a storage word of the frame's storage account.
func (evm *EVM) SStore(contract *Contract, key common.Hash, value common.Hash) error {
	if evm.readOnly {
		return ErrWriteProtection
	}
	current := evm.StateDB.GetState(contract.Address(), key)
	if !contract.UseGas(sstoreGas(current, value)) {
		return ErrOutOfGas
	}
	evm.StateDB.SetState(contract.Address(), key, value)
	return nil
}

// EmitLog appends a log entry emitted by the frame's storage account.
func (evm *EVM) EmitLog(contract *Contract, topics []common.Hash, data []byte) error {
	if evm.readOnly {
		return ErrWriteProtection
	}
	gas, err := logGas(len(topics), len(data))
	if err != nil {
		return err
	}
	if !contract.UseGas(gas) {
		return ErrOutOfGas
	}
	evm.StateDB.AddLog(&types.Log{
		Address:     contract.Address(),
		Topics:      topics,
		Data:        common.CopyBytes(data),
		BlockNumber: evm.Context.BlockNumber.Uint64(),
	})
	return nil
}

// CodeSize returns the size of the code deployed at addr.
func (evm *EVM) CodeSize(contract *Contract, addr common.Address) (int, error) {
	if !contract.UseGas(CodeSizeGas) {
		return 0, ErrOutOfGas
	}
	return evm.StateDB.GetCodeSize(addr), nil
}
