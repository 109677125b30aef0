// Package counter provides Go bindings of the counter native contracts.
package counter

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/counterv1"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/counterv2"
)

// DeployCounterV1 deploys a counterv1 native contract, binding an instance of Counter to it.
func DeployCounterV1(auth *bind.TransactOpts, backend bind.ContractBackend) (common.Address, *types.Transaction, *Counter, error) {
	return deploy(auth, backend, counterv1.Name)
}

// DeployCounterV2 deploys a counterv2 native contract, binding an instance of Counter to it.
func DeployCounterV2(auth *bind.TransactOpts, backend bind.ContractBackend) (common.Address, *types.Transaction, *Counter, error) {
	return deploy(auth, backend, counterv2.Name)
}

func deploy(auth *bind.TransactOpts, backend bind.ContractBackend, name string) (common.Address, *types.Transaction, *Counter, error) {
	address, tx, contract, err := bind.DeployContract(auth, counterv2.CounterV2Abi, vm.NativeCode(name), backend)
	if err != nil {
		return common.Address{}, nil, nil, err
	}
	return address, tx, &Counter{contract: contract}, nil
}

// Counter is a Go binding around a counter, either deployed directly or
// reached through a proxy. Methods absent from the bound version revert.
type Counter struct {
	contract *bind.BoundContract
}

// NewCounter creates a new instance of Counter, bound to a specific deployed contract.
func NewCounter(address common.Address, backend bind.ContractBackend) *Counter {
	return &Counter{contract: bind.NewBoundContract(address, counterv2.CounterV2Abi, backend, backend, backend)}
}

// GetCount is a free data retrieval call binding the contract method 0xa87d942c.
//
// Solidity: function getCount() view returns(uint256)
func (c *Counter) GetCount(opts *bind.CallOpts) (*big.Int, error) {
	var out []interface{}
	if err := c.contract.Call(opts, &out, "getCount"); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// Increment is a paid mutator transaction binding the contract method 0xd09de08a.
//
// Solidity: function increment() returns()
func (c *Counter) Increment(opts *bind.TransactOpts) (*types.Transaction, error) {
	return c.contract.Transact(opts, "increment")
}

// Decrement is a paid mutator transaction binding the contract method 0x2baeceb7.
//
// Solidity: function decrement() returns()
func (c *Counter) Decrement(opts *bind.TransactOpts) (*types.Transaction, error) {
	return c.contract.Transact(opts, "decrement")
}

// IncrementBy is a paid mutator transaction binding the contract method 0x03df179c.
//
// Solidity: function incrementBy(uint256 amount) returns()
func (c *Counter) IncrementBy(opts *bind.TransactOpts, amount *big.Int) (*types.Transaction, error) {
	return c.contract.Transact(opts, "incrementBy", amount)
}
