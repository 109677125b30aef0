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
	"errors"
	"fmt"
)

// List evm execution errors
var (
	ErrOutOfGas                     = errors.New("out of gas")
	ErrDepth                        = errors.New("max call depth exceeded")
	ErrInsufficientBalance          = errors.New("insufficient balance for transfer")
	ErrContractAddressCollision     = errors.New("contract address collision")
	ErrExecutionReverted            = errors.New("execution reverted")
	ErrWriteProtection              = errors.New("write protection")
	ErrInvalidCode                  = errors.New("invalid code: not a known native contract")
	ErrNonceUintOverflow            = errors.New("nonce uint64 overflow")
	ErrGasUintOverflow              = errors.New("gas uint64 overflow")
	ErrNativeFunctionNotImplemented = errors.New("native function not implemented")
)

// ErrUnknownNative wraps ErrInvalidCode with the name found in a designator
// that no registry entry serves.
type ErrUnknownNative struct {
	Name string
}

func (e *ErrUnknownNative) Error() string {
	return fmt.Sprintf("unknown native contract %q", e.Name)
}

func (e *ErrUnknownNative) Unwrap() error {
	return ErrInvalidCode
}
