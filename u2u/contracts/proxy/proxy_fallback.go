package proxy

import (
	"errors"

	"github.com/ethereum/go-ethereum/log"

	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
)

// handleFallback delegates the call verbatim to the current implementation
// and relays the outcome: return data on success, the callee's revert data
// on failure.
func handleFallback(evm *vm.EVM, contract *vm.Contract) ([]byte, error) {
	implementation, err := loadAddress(evm, contract, ImplementationSlot)
	if err != nil {
		return nil, err
	}
	gas := vm.AllButOne64th(contract.Gas)
	contract.UseGas(gas)

	ret, left, err := evm.DelegateCall(contract, implementation, contract.Input, gas)
	contract.RefundGas(left)
	if err == nil {
		return ret, nil
	}
	log.Trace("Proxy: delegated call failed", "proxy", contract.Address(), "implementation", implementation, "err", err)
	if errors.Is(err, vm.ErrExecutionReverted) {
		return ret, vm.ErrExecutionReverted
	}
	return nil, vm.ErrExecutionReverted
}
