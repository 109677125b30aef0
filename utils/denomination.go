// Copyright 2023 The go-u2u Authors
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

package utils

import (
	"math/big"
	"strings"
)

// Denominations of the ledger's native token, in wei.
const (
	WEI  = 1
	GWEI = 1e9
	U2U  = 1e18
)

var (
	gweiUnit = big.NewInt(GWEI)
	u2uUnit  = big.NewInt(U2U)
)

// ToU2U converts whole tokens to wei.
func ToU2U(amount uint64) *big.Int {
	return scale(amount, u2uUnit)
}

// ToGWEI converts gwei to wei.
func ToGWEI(amount uint64) *big.Int {
	return scale(amount, gweiUnit)
}

func scale(amount uint64, unit *big.Int) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(amount), unit)
}

// FormatU2U renders a wei amount as a decimal token amount without trailing
// zeros, e.g. "1.5 U2U". Nil is rendered as zero.
func FormatU2U(wei *big.Int) string {
	if wei == nil {
		wei = new(big.Int)
	}
	sign := ""
	abs := new(big.Int).Abs(wei)
	if wei.Sign() < 0 {
		sign = "-"
	}
	whole, frac := new(big.Int).QuoRem(abs, u2uUnit, new(big.Int))
	if frac.Sign() == 0 {
		return sign + whole.String() + " U2U"
	}
	digits := frac.String()
	digits = strings.Repeat("0", 18-len(digits)) + digits
	return sign + whole.String() + "." + strings.TrimRight(digits, "0") + " U2U"
}
