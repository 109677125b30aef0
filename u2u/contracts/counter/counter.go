// Package counter holds the storage layout and state helpers shared by all
// counter implementations, so that versions stay layout compatible.
package counter

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/nativeabi"
)

// Count returns the count stored at addr.
func Count(db vm.StateDB, addr common.Address) *uint256.Int {
	return new(uint256.Int).SetBytes(db.GetState(addr, CountSlot).Bytes())
}

// Load reads the count of the frame's storage.
func Load(evm *vm.EVM, contract *vm.Contract) (*uint256.Int, error) {
	val, err := evm.SLoad(contract, CountSlot)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(val.Bytes()), nil
}

// Store writes the count of the frame's storage.
func Store(evm *vm.EVM, contract *vm.Contract, count *uint256.Int) error {
	return evm.SStore(contract, CountSlot, count.Bytes32())
}

// Add increases the count by amount and emits event with the new count.
// Overflow reverts with an arithmetic panic.
func Add(evm *vm.EVM, contract *vm.Contract, amount *uint256.Int, event abi.Event) ([]byte, error) {
	count, err := Load(evm, contract)
	if err != nil {
		return nil, err
	}
	next, overflow := new(uint256.Int).AddOverflow(count, amount)
	if overflow {
		return nativeabi.Panic(nativeabi.PanicArithmetic)
	}
	return nil, update(evm, contract, next, event)
}

// Sub decreases the count by amount and emits event with the new count.
// Underflow reverts with reason.
func Sub(evm *vm.EVM, contract *vm.Contract, amount *uint256.Int, event abi.Event, reason string) ([]byte, error) {
	count, err := Load(evm, contract)
	if err != nil {
		return nil, err
	}
	if count.Lt(amount) {
		return nativeabi.Revert(reason)
	}
	return nil, update(evm, contract, new(uint256.Int).Sub(count, amount), event)
}

// Get returns the ABI encoded count.
func Get(evm *vm.EVM, contract *vm.Contract, method abi.Method) ([]byte, error) {
	count, err := Load(evm, contract)
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(count.ToBig())
}

func update(evm *vm.EVM, contract *vm.Contract, count *uint256.Int, event abi.Event) error {
	if err := Store(evm, contract, count); err != nil {
		return err
	}
	data, err := event.Inputs.NonIndexed().Pack(count.ToBig())
	if err != nil {
		return err
	}
	return evm.EmitLog(contract, []common.Hash{event.ID}, data)
}
