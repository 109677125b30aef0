package counterv1

import (
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/counter"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/nativeabi"
)

// Name is the native code name of the first counter version.
const Name = "counterv1"

// CounterV1 counts up.
type CounterV1 struct{}

// Run runs the native contract
func (c *CounterV1) Run(evm *vm.EVM, contract *vm.Contract) ([]byte, error) {
	if err := nativeabi.RejectValue(contract); err != nil {
		return nil, err
	}
	method, _, err := nativeabi.ParseInput(CounterV1Abi, contract.Input)
	if err != nil {
		return nil, err
	}
	log.Trace("CounterV1: Calling function", "function", method.Name, "address", contract.Address(),
		"caller", contract.Caller())

	switch method.Name {
	case "increment":
		return counter.Add(evm, contract, uint256.NewInt(1), CounterV1Abi.Events["CountUpdated"])
	case "getCount":
		return counter.Get(evm, contract, *method)
	default:
		return nil, vm.ErrNativeFunctionNotImplemented
	}
}
