package proxy

import (
	"bytes"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
)

// Name is the native code name of the proxy.
const Name = "proxy"

// Proxy is an EIP-1967 delegation proxy. It keeps an implementation and an
// admin in fixed storage slots and delegates every call the admin doesn't
// make to upgradeTo or changeAdmin.
type Proxy struct{}

// Construct records the deployer as admin. The implementation stays unset.
func (p *Proxy) Construct(evm *vm.EVM, contract *vm.Contract) ([]byte, error) {
	if err := storeAddress(evm, contract, AdminSlot, contract.Caller()); err != nil {
		return nil, err
	}
	if err := emitAdminChanged(evm, contract, common.Address{}, contract.Caller()); err != nil {
		return nil, err
	}
	log.Debug("Proxy created", "proxy", contract.Address(), "admin", contract.Caller())
	return nil, nil
}

// Run dispatches a call to the proxy.
func (p *Proxy) Run(evm *vm.EVM, contract *vm.Contract) ([]byte, error) {
	method := adminMethod(contract.Input)
	if method == nil {
		return handleFallback(evm, contract)
	}
	admin, err := loadAddress(evm, contract, AdminSlot)
	if err != nil {
		return nil, err
	}
	// Non-admins reach the implementation's function with the same selector.
	if contract.Caller() != admin {
		log.Trace("Proxy: admin selector from non-admin, delegating", "proxy", contract.Address(),
			"function", method.Name, "caller", contract.Caller())
		return handleFallback(evm, contract)
	}
	args, err := method.Inputs.Unpack(contract.Input[4:])
	if err != nil {
		return nil, vm.ErrExecutionReverted
	}

	var result []byte
	switch method.Name {
	case "upgradeTo":
		result, err = handleUpgradeTo(evm, contract, args)
	case "changeAdmin":
		result, err = handleChangeAdmin(evm, contract, args)
	default:
		return nil, vm.ErrNativeFunctionNotImplemented
	}
	if err != nil {
		reason, _ := abi.UnpackRevert(result)
		log.Debug("Proxy: Revert", "function", method.Name, "err", err, "reason", reason)
		return result, err
	}
	log.Debug("Proxy: Success", "function", method.Name, "proxy", contract.Address())
	return result, nil
}

// adminMethod returns the administrative method selected by input, if any.
func adminMethod(input []byte) *abi.Method {
	if len(input) < 4 {
		return nil
	}
	for _, name := range []string{"upgradeTo", "changeAdmin"} {
		method := ProxyAbi.Methods[name]
		if bytes.Equal(method.ID, input[:4]) {
			return &method
		}
	}
	return nil
}
