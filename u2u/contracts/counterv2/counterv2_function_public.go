package counterv2

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/counter"
)

var one = uint256.NewInt(1)

func handleIncrement(evm *vm.EVM, contract *vm.Contract) ([]byte, error) {
	return counter.Add(evm, contract, one, CounterV2Abi.Events["CountUpdated"])
}

func handleDecrement(evm *vm.EVM, contract *vm.Contract) ([]byte, error) {
	return counter.Sub(evm, contract, one, CounterV2Abi.Events["DecrementedCount"], "Count cannot be negative")
}

func handleIncrementBy(evm *vm.EVM, contract *vm.Contract, args []interface{}) ([]byte, error) {
	if len(args) != 1 {
		return nil, vm.ErrExecutionReverted
	}
	amount, ok := args[0].(*big.Int)
	if !ok {
		return nil, vm.ErrExecutionReverted
	}
	return counter.Add(evm, contract, uint256.MustFromBig(amount), CounterV2Abi.Events["CountUpdated"])
}

func handleGetCount(evm *vm.EVM, contract *vm.Contract) ([]byte, error) {
	return counter.Get(evm, contract, CounterV2Abi.Methods["getCount"])
}
