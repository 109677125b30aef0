package proxy

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/nativeabi"
)

// Handler functions for the admin-only entry points. The caller is already
// known to be the admin.

// handleUpgradeTo points the proxy at a new implementation
func handleUpgradeTo(evm *vm.EVM, contract *vm.Contract, args []interface{}) ([]byte, error) {
	if len(args) != 1 {
		return nil, vm.ErrExecutionReverted
	}
	newImplementation, ok := args[0].(common.Address)
	if !ok {
		return nil, vm.ErrExecutionReverted
	}

	size, err := evm.CodeSize(contract, newImplementation)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nativeabi.Revert("Invalid implementation")
	}
	if err := storeAddress(evm, contract, ImplementationSlot, newImplementation); err != nil {
		return nil, err
	}

	// Emit Upgraded event
	topics := []common.Hash{
		ProxyAbi.Events["Upgraded"].ID,
		common.BytesToHash(newImplementation.Bytes()), // indexed parameter
	}
	if err := evm.EmitLog(contract, topics, nil); err != nil {
		return nil, err
	}
	return nil, nil
}

// handleChangeAdmin hands the admin role over
func handleChangeAdmin(evm *vm.EVM, contract *vm.Contract, args []interface{}) ([]byte, error) {
	if len(args) != 1 {
		return nil, vm.ErrExecutionReverted
	}
	newAdmin, ok := args[0].(common.Address)
	if !ok {
		return nil, vm.ErrExecutionReverted
	}

	if newAdmin == (common.Address{}) {
		return nativeabi.Revert("Invalid admin address")
	}
	if err := storeAddress(evm, contract, AdminSlot, newAdmin); err != nil {
		return nil, err
	}
	if err := emitAdminChanged(evm, contract, contract.Caller(), newAdmin); err != nil {
		return nil, err
	}
	return nil, nil
}

func emitAdminChanged(evm *vm.EVM, contract *vm.Contract, previousAdmin, newAdmin common.Address) error {
	data, err := ProxyAbi.Events["AdminChanged"].Inputs.Pack(previousAdmin, newAdmin)
	if err != nil {
		return err
	}
	return evm.EmitLog(contract, []common.Hash{ProxyAbi.Events["AdminChanged"].ID}, data)
}
