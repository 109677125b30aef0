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
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/unicornultrafoundation/go-u2u-proxy/params"
)

// ContractRef is a reference to the contract's backing object
type ContractRef interface {
	Address() common.Address
}

// AccountRef implements ContractRef.
//
// Account references are used during EVM initialisation and
// its primary use is to fetch addresses. Removing this object
// proves difficult because of the cached jump destinations which
// are fetched from the parent contract (i.e. the caller), which
// is a ContractRef.
type AccountRef common.Address

// Address casts AccountRef to an Address
func (ar AccountRef) Address() common.Address { return (common.Address)(ar) }

// BlockContext provides the EVM with auxiliary information. Once provided
// it shouldn't be modified.
type BlockContext struct {
	// CanTransfer returns whether the account contains
	// sufficient ether to transfer the value
	CanTransfer CanTransferFunc
	// Transfer transfers ether from one account to the other
	Transfer TransferFunc

	// Block information
	Coinbase    common.Address // Provides information for COINBASE
	GasLimit    uint64         // Provides information for GASLIMIT
	BlockNumber *big.Int       // Provides information for NUMBER
	Time        uint64         // Provides information for TIME
}

// TxContext provides the EVM with information about a transaction.
// All fields can change between transactions.
type TxContext struct {
	Origin   common.Address // Provides information for ORIGIN
	GasPrice *big.Int       // Provides information for GASPRICE
}

// Config are the configuration options for the host
type Config struct {
	// Natives resolves code designators. A nil registry makes every
	// designator invalid.
	Natives *Registry
}

// EVM is the host of native contracts. It dispatches calls, delegate calls,
// static calls and creations to the native code bound to the target account,
// rolling state back when a frame fails.
//
// The EVM should never be reused and is not thread safe.
type EVM struct {
	// Context provides auxiliary blockchain related information
	Context BlockContext
	TxContext
	// StateDB gives access to the underlying state
	StateDB StateDB
	// virtual machine configuration options used to initialise the evm
	Config Config

	// depth is the current call stack
	depth int
	// readOnly is set for the duration of a static call
	readOnly bool
}

// NewEVM returns a new EVM. The returned EVM is not thread safe and should
// only ever be used *once*.
func NewEVM(blockCtx BlockContext, txCtx TxContext, statedb StateDB, config Config) *EVM {
	if blockCtx.BlockNumber == nil {
		blockCtx.BlockNumber = new(big.Int)
	}
	return &EVM{
		Context:   blockCtx,
		TxContext: txCtx,
		StateDB:   statedb,
		Config:    config,
	}
}

// Reset resets the EVM with a new transaction context.
// This is not threadsafe and should only be done very cautiously.
func (evm *EVM) Reset(txCtx TxContext, statedb StateDB) {
	evm.TxContext = txCtx
	evm.StateDB = statedb
}

// Depth returns the number of frames currently on the call stack.
func (evm *EVM) Depth() int {
	return evm.depth
}

// ReadOnly reports whether state writes are currently forbidden.
func (evm *EVM) ReadOnly() bool {
	return evm.readOnly
}

// Call executes the contract associated with the addr with the given input as
// parameters. It also handles any necessary value transfer required and takes
// the necessary steps to create accounts and reverses the state in case of an
// execution error or failed value transfer.
func (evm *EVM) Call(caller ContractRef, addr common.Address, input []byte, gas uint64, value *uint256.Int) (ret []byte, leftOverGas uint64, err error) {
	if value == nil {
		value = new(uint256.Int)
	}
	// Fail if we're trying to execute above the call depth limit
	if evm.depth > int(params.CallCreateDepth) {
		return nil, gas, ErrDepth
	}
	if evm.readOnly && !value.IsZero() {
		return nil, gas, ErrWriteProtection
	}
	// Fail if we're trying to transfer more than the available balance
	if !value.IsZero() && !evm.Context.CanTransfer(evm.StateDB, caller.Address(), value) {
		return nil, gas, ErrInsufficientBalance
	}
	snapshot := evm.StateDB.Snapshot()

	if !evm.StateDB.Exist(addr) {
		evm.StateDB.CreateAccount(addr)
	}
	evm.Context.Transfer(evm.StateDB, caller.Address(), addr, value)

	contract := NewContract(caller.Address(), addr, value, gas)
	contract.Input = input
	ret, err = evm.run(contract, evm.StateDB.GetCode(addr))

	// When an error was returned by the native code we revert to the snapshot
	// and consume any gas remaining, except for reverts which keep it.
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if !errors.Is(err, ErrExecutionReverted) {
			contract.UseGas(contract.Gas)
		}
	}
	return ret, contract.Gas, err
}

// DelegateCall executes the contract associated with the addr with the given
// input as parameters. It reverses the state in case of an execution error.
//
// DelegateCall differs from Call in the sense that it executes the given
// address' code with the parent's storage, caller and value.
func (evm *EVM) DelegateCall(parent *Contract, addr common.Address, input []byte, gas uint64) (ret []byte, leftOverGas uint64, err error) {
	// Fail if we're trying to execute above the call depth limit
	if evm.depth > int(params.CallCreateDepth) {
		return nil, gas, ErrDepth
	}
	snapshot := evm.StateDB.Snapshot()

	contract := newDelegateContract(parent, addr, gas)
	contract.Input = input
	ret, err = evm.run(contract, evm.StateDB.GetCode(addr))
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if !errors.Is(err, ErrExecutionReverted) {
			contract.UseGas(contract.Gas)
		}
	}
	return ret, contract.Gas, err
}

// StaticCall executes the contract associated with the addr with the given
// input as parameters while disallowing any modifications to the state during
// the call.
func (evm *EVM) StaticCall(caller ContractRef, addr common.Address, input []byte, gas uint64) (ret []byte, leftOverGas uint64, err error) {
	// Fail if we're trying to execute above the call depth limit
	if evm.depth > int(params.CallCreateDepth) {
		return nil, gas, ErrDepth
	}
	snapshot := evm.StateDB.Snapshot()

	if !evm.readOnly {
		evm.readOnly = true
		defer func() { evm.readOnly = false }()
	}
	contract := NewContract(caller.Address(), addr, new(uint256.Int), gas)
	contract.Input = input
	ret, err = evm.run(contract, evm.StateDB.GetCode(addr))
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if !errors.Is(err, ErrExecutionReverted) {
			contract.UseGas(contract.Gas)
		}
	}
	return ret, contract.Gas, err
}

// Create creates a new contract from a creation payload: a native code
// designator optionally followed by constructor arguments. The address is
// derived from the caller and its nonce.
func (evm *EVM) Create(caller ContractRef, code []byte, gas uint64, value *uint256.Int) (ret []byte, contractAddr common.Address, leftOverGas uint64, err error) {
	if value == nil {
		value = new(uint256.Int)
	}
	// Depth check execution. Fail if we're trying to execute above the
	// limit.
	if evm.depth > int(params.CallCreateDepth) {
		return nil, common.Address{}, gas, ErrDepth
	}
	if evm.readOnly {
		return nil, common.Address{}, gas, ErrWriteProtection
	}
	if !evm.Context.CanTransfer(evm.StateDB, caller.Address(), value) {
		return nil, common.Address{}, gas, ErrInsufficientBalance
	}
	nonce := evm.StateDB.GetNonce(caller.Address())
	if nonce+1 < nonce {
		return nil, common.Address{}, gas, ErrNonceUintOverflow
	}
	evm.StateDB.SetNonce(caller.Address(), nonce+1)

	contractAddr = crypto.CreateAddress(caller.Address(), nonce)
	// Ensure there's no existing contract already at the designated address
	contractHash := evm.StateDB.GetCodeHash(contractAddr)
	if evm.StateDB.GetNonce(contractAddr) != 0 || (contractHash != (common.Hash{}) && contractHash != types.EmptyCodeHash) {
		return nil, common.Address{}, 0, ErrContractAddressCollision
	}
	// Create a new account on the state
	snapshot := evm.StateDB.Snapshot()
	evm.StateDB.CreateAccount(contractAddr)
	evm.StateDB.SetNonce(contractAddr, 1)
	evm.Context.Transfer(evm.StateDB, caller.Address(), contractAddr, value)

	contract := NewContract(caller.Address(), contractAddr, value, gas)
	ret, err = evm.construct(contract, code)

	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if !errors.Is(err, ErrExecutionReverted) {
			contract.UseGas(contract.Gas)
		}
	}
	return ret, contractAddr, contract.Gas, err
}

// construct runs the constructor designated by the creation payload and
// deposits the bare designator as the account's code.
func (evm *EVM) construct(contract *Contract, code []byte) ([]byte, error) {
	name, args, ok := ParseNativeCode(code)
	if !ok {
		return nil, ErrInvalidCode
	}
	native, ok := evm.natives().Get(name)
	if !ok {
		return nil, &ErrUnknownNative{Name: name}
	}
	var (
		ret []byte
		err error
	)
	if ctor, isCtor := native.(Constructor); isCtor {
		contract.Input = args
		evm.depth++
		ret, err = ctor.Construct(evm, contract)
		evm.depth--
		if err != nil {
			return ret, err
		}
	} else if len(args) != 0 {
		return nil, ErrInvalidCode
	}
	deployed := NativeCode(name)
	createGas, err := createDataGas(len(deployed))
	if err != nil {
		return nil, err
	}
	if !contract.UseGas(createGas) {
		return nil, ErrOutOfGas
	}
	evm.StateDB.SetCode(contract.Address(), deployed)
	log.Debug("Native contract created", "name", name, "address", contract.Address(), "depth", evm.depth)
	return ret, nil
}

// run executes the native code bound to the frame. Accounts without code
// succeed with empty output.
func (evm *EVM) run(contract *Contract, code []byte) (ret []byte, err error) {
	if len(code) == 0 {
		return nil, nil
	}
	native, err := evm.natives().Resolve(code)
	if err != nil {
		return nil, err
	}
	if !contract.UseGas(CallGas) {
		return nil, ErrOutOfGas
	}
	evm.depth++
	defer func() { evm.depth-- }()

	nativeCallMeter.Mark(1)
	start := time.Now()
	ret, err = native.Run(evm, contract)
	nativeExecutionTimer.UpdateSince(start)

	if err != nil {
		nativeFailureMeter.Mark(1)
		log.Trace("Native frame failed", "address", contract.Address(), "code", contract.CodeAddr,
			"depth", evm.depth, "err", err)
	}
	return ret, err
}

func (evm *EVM) natives() *Registry {
	if evm.Config.Natives == nil {
		return emptyRegistry
	}
	return evm.Config.Natives
}

var emptyRegistry = NewRegistry()
