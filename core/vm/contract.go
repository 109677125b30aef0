// Copyright 2024 The go-u2u Authors
// This file is part of the go-u2u library.
//
// The go-u2u library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-u2u library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-u2u library. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Contract is the execution frame of a native contract.
type Contract struct {
	// CallerAddress is the msg.sender of the frame. Delegated frames inherit
	// it from their parent.
	CallerAddress common.Address
	// CodeAddr is the account whose code is executing.
	CodeAddr common.Address

	self  common.Address
	value *uint256.Int

	Input []byte
	Gas   uint64
}

// NewContract returns a frame executing the code of addr in its own storage.
func NewContract(caller common.Address, addr common.Address, value *uint256.Int, gas uint64) *Contract {
	if value == nil {
		value = new(uint256.Int)
	}
	return &Contract{
		CallerAddress: caller,
		CodeAddr:      addr,
		self:          addr,
		value:         value,
		Gas:           gas,
	}
}

// newDelegateContract returns a frame executing the code of codeAddr in the
// storage, identity, caller and value context of parent.
func newDelegateContract(parent *Contract, codeAddr common.Address, gas uint64) *Contract {
	return &Contract{
		CallerAddress: parent.CallerAddress,
		CodeAddr:      codeAddr,
		self:          parent.self,
		value:         parent.value,
		Gas:           gas,
	}
}

// Caller returns msg.sender.
func (c *Contract) Caller() common.Address {
	return c.CallerAddress
}

// Address returns address(this): the account whose storage and balance the
// frame operates on.
func (c *Contract) Address() common.Address {
	return c.self
}

// Value returns msg.value.
func (c *Contract) Value() *uint256.Int {
	return c.value
}

// IsDelegated reports whether the frame runs foreign code in its own storage.
func (c *Contract) IsDelegated() bool {
	return c.CodeAddr != c.self
}

// UseGas attempts the use gas and subtracts it and returns true on success
func (c *Contract) UseGas(gas uint64) (ok bool) {
	if c.Gas < gas {
		return false
	}
	c.Gas -= gas
	return true
}

// RefundGas refunds gas to the contract
func (c *Contract) RefundGas(gas uint64) {
	if gas == 0 {
		return
	}
	c.Gas += gas
}
