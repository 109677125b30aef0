// Package proxy provides Go bindings of the proxy native contract.
package proxy

import (
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/proxy"
)

// DeployProxy deploys a proxy native contract administered by the sender.
func DeployProxy(auth *bind.TransactOpts, backend bind.ContractBackend) (common.Address, *types.Transaction, *Proxy, error) {
	address, tx, contract, err := bind.DeployContract(auth, proxy.ProxyAbi, vm.NativeCode(proxy.Name), backend)
	if err != nil {
		return common.Address{}, nil, nil, err
	}
	return address, tx, &Proxy{contract: contract}, nil
}

// Proxy is a Go binding around a deployed proxy.
type Proxy struct {
	contract *bind.BoundContract
}

// NewProxy creates a new instance of Proxy, bound to a specific deployed contract.
func NewProxy(address common.Address, backend bind.ContractBackend) *Proxy {
	return &Proxy{contract: bind.NewBoundContract(address, proxy.ProxyAbi, backend, backend, backend)}
}

// UpgradeTo is a paid mutator transaction binding the contract method 0x3659cfe6.
//
// Solidity: function upgradeTo(address newImplementation) payable returns()
func (p *Proxy) UpgradeTo(opts *bind.TransactOpts, newImplementation common.Address) (*types.Transaction, error) {
	return p.contract.Transact(opts, "upgradeTo", newImplementation)
}

// ChangeAdmin is a paid mutator transaction binding the contract method 0x8f283970.
//
// Solidity: function changeAdmin(address newAdmin) payable returns()
func (p *Proxy) ChangeAdmin(opts *bind.TransactOpts, newAdmin common.Address) (*types.Transaction, error) {
	return p.contract.Transact(opts, "changeAdmin", newAdmin)
}

// RawTransact invokes the proxy with arbitrary calldata, reaching its
// delegation path for anything that isn't an admin call.
func (p *Proxy) RawTransact(opts *bind.TransactOpts, calldata []byte) (*types.Transaction, error) {
	return p.contract.RawTransact(opts, calldata)
}

// Transfer initiates a plain transaction to the proxy.
func (p *Proxy) Transfer(opts *bind.TransactOpts) (*types.Transaction, error) {
	return p.contract.Transfer(opts)
}
