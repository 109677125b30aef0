// Copyright 2015 The go-ethereum Authors
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
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
)

// ApplyTransaction attempts to apply a transaction to the given state database
// and uses the input parameters for its environment. It returns the receipt
// for the transaction and the execution result. An error is returned only if
// the transaction is invalid; execution failures produce a failed receipt.
//
// Block hash and block annotations of the receipt and its logs are left for
// the caller, who knows the hash only once the block is sealed.
func ApplyTransaction(
	msg Message,
	gp *GasPool,
	statedb *state.StateDB,
	header *types.Header,
	tx *types.Transaction,
	txIndex int,
	usedGas *uint64,
	evm *vm.EVM,
) (
	*types.Receipt,
	*ExecutionResult,
	error,
) {
	statedb.SetTxContext(tx.Hash(), txIndex)
	evm.Reset(NewEVMTxContext(msg), statedb)

	result, err := ApplyMessage(evm, msg, gp)
	if err != nil {
		return nil, nil, err
	}
	statedb.Finalise(true)
	*usedGas += result.UsedGas

	// Create a new receipt for the transaction, storing the gas used by the tx.
	receipt := &types.Receipt{Type: tx.Type(), CumulativeGasUsed: *usedGas}
	if result.Failed() {
		receipt.Status = types.ReceiptStatusFailed
	} else {
		receipt.Status = types.ReceiptStatusSuccessful
	}
	receipt.TxHash = tx.Hash()
	receipt.GasUsed = result.UsedGas

	// If the transaction created a contract, store the creation address in the receipt.
	if msg.To() == nil {
		receipt.ContractAddress = crypto.CreateAddress(msg.From(), tx.Nonce())
	}
	receipt.Logs = statedb.GetLogs(tx.Hash(), header.Number.Uint64(), common.Hash{})
	receipt.Bloom = types.CreateBloom(types.Receipts{receipt})
	receipt.BlockNumber = header.Number
	receipt.TransactionIndex = uint(txIndex)

	return receipt, result, nil
}
