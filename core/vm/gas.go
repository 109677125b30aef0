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
	"math"

	"github.com/ethereum/go-ethereum/params"
)

// Gas prices of the host operations. Native code pays the price of the
// opcode it stands in for.
const (
	SloadGas       uint64 = params.ColdSloadCostEIP2929
	SstoreSetGas   uint64 = params.SstoreSetGasEIP2200
	SstoreResetGas uint64 = params.SstoreResetGasEIP2200
	SstoreNoopGas  uint64 = params.WarmStorageReadCostEIP2929
	CallGas        uint64 = params.WarmStorageReadCostEIP2929
	CodeSizeGas    uint64 = params.ColdAccountAccessCostEIP2929
)

// AllButOne64th returns the gas a frame may forward to a nested frame
// (EIP-150).
func AllButOne64th(available uint64) uint64 {
	return available - available/64
}

// sstoreGas prices a storage write given the current slot value.
func sstoreGas(current, value [32]byte) uint64 {
	switch {
	case current == value:
		return SstoreNoopGas
	case current == [32]byte{}:
		return SstoreSetGas
	default:
		return SstoreResetGas
	}
}

// logGas prices a log with the given topic count and data length.
func logGas(topics int, size int) (uint64, error) {
	gas := params.LogGas + uint64(topics)*params.LogTopicGas
	if size < 0 || uint64(size) > (math.MaxUint64-gas)/params.LogDataGas {
		return 0, ErrGasUintOverflow
	}
	return gas + uint64(size)*params.LogDataGas, nil
}

// createDataGas prices the deposit of code during contract creation.
func createDataGas(size int) (uint64, error) {
	if uint64(size) > math.MaxUint64/params.CreateDataGas {
		return 0, ErrGasUintOverflow
	}
	return uint64(size) * params.CreateDataGas, nil
}
