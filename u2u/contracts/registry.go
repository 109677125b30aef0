// Package contracts binds the native contracts of the ledger to their code
// designator names.
package contracts

import (
	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/counterv1"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/counterv2"
	"github.com/unicornultrafoundation/go-u2u-proxy/u2u/contracts/proxy"
)

// NewRegistry returns a registry of all native contracts.
func NewRegistry() *vm.Registry {
	r := vm.NewRegistry()
	r.Register(proxy.Name, &proxy.Proxy{})
	r.Register(counterv1.Name, &counterv1.CounterV1{})
	r.Register(counterv2.Name, &counterv2.CounterV2{})
	return r
}

// Code returns the creation payload deploying the native contract name.
func Code(name string) []byte {
	return vm.NativeCode(name)
}
