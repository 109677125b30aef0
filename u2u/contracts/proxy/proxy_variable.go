package proxy

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/unicornultrafoundation/go-u2u-proxy/core/vm"
)

// Implementation returns the implementation recorded by the proxy at addr.
func Implementation(db vm.StateDB, addr common.Address) common.Address {
	return common.BytesToAddress(db.GetState(addr, ImplementationSlot).Bytes())
}

// Admin returns the admin recorded by the proxy at addr.
func Admin(db vm.StateDB, addr common.Address) common.Address {
	return common.BytesToAddress(db.GetState(addr, AdminSlot).Bytes())
}

func loadAddress(evm *vm.EVM, contract *vm.Contract, slot common.Hash) (common.Address, error) {
	val, err := evm.SLoad(contract, slot)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(val.Bytes()), nil
}

func storeAddress(evm *vm.EVM, contract *vm.Contract, slot common.Hash, addr common.Address) error {
	return evm.SStore(contract, slot, common.BytesToHash(addr.Bytes()))
}
