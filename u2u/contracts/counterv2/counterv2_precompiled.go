package counterv2

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/nativeabi"
)

// Name is the native code name of the second counter version.
const Name = "counterv2"

// CounterV2 extends CounterV1 with decrement and incrementBy. It keeps the
// storage layout of CounterV1.
type CounterV2 struct{}

// Run runs the native contract
func (c *CounterV2) Run(evm *vm.EVM, contract *vm.Contract) ([]byte, error) {
	if err := nativeabi.RejectValue(contract); err != nil {
		return nil, err
	}
	method, args, err := nativeabi.ParseInput(CounterV2Abi, contract.Input)
	if err != nil {
		return nil, err
	}
	log.Trace("CounterV2: Calling function", "function", method.Name, "address", contract.Address(),
		"caller", contract.Caller())

	switch method.Name {
	case "increment":
		return handleIncrement(evm, contract)
	case "decrement":
		return handleDecrement(evm, contract)
	case "incrementBy":
		return handleIncrementBy(evm, contract, args)
	case "getCount":
		return handleGetCount(evm, contract)
	default:
		return nil, vm.ErrNativeFunctionNotImplemented
	}
}
