// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package modexp provides modular exponentiation for the bridge.
//
// Two routines:
//   - Exp: always available. Moduli up to 256 bits run on fixed-width
//     uint256 arithmetic, larger ones on math/big.
//   - NativeExp: GMP via cgo, compiled in with the gmp build tag.
//
// Both return identical results; the choice is purely a performance one and
// is made once at start-up with Func.
package modexp

import (
	"math/big"

	"github.com/holiman/uint256"
)

// ExpFunc computes base^exponent mod modulus. Operands are expected to have
// passed Validate.
type ExpFunc func(base, exponent, modulus *big.Int) *big.Int

// Exp is the portable exponentiation routine.
func Exp(base, exponent, modulus *big.Int) *big.Int {
	if r, ok := exp256(base, exponent, modulus); ok {
		return r
	}
	return new(big.Int).Exp(base, exponent, modulus)
}

// Func returns NativeExp when native is requested and compiled in, and Exp
// otherwise.
func Func(native bool) ExpFunc {
	if native && NativeAvailable {
		return NativeExp
	}
	return Exp
}

// exp256 is left-to-right square-and-multiply over 256-bit words. It reports
// false when the modulus or base does not fit.
func exp256(base, exponent, modulus *big.Int) (*big.Int, bool) {
	m, overflow := uint256.FromBig(modulus)
	if overflow || m.IsZero() {
		return nil, false
	}
	b, overflow := uint256.FromBig(base)
	if overflow {
		return nil, false
	}
	b.Mod(b, m)

	acc := uint256.NewInt(1)
	acc.Mod(acc, m)
	for i := exponent.BitLen() - 1; i >= 0; i-- {
		acc.MulMod(acc, acc, m)
		if exponent.Bit(i) == 1 {
			acc.MulMod(acc, b, m)
		}
	}
	return acc.ToBig(), true
}
