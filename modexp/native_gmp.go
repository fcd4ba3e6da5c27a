// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//go:build cgo && gmp

package modexp

import (
	"math/big"

	gmp "github.com/ncw/gmp"
)

// NativeAvailable reports whether the GMP fast path was compiled in.
const NativeAvailable = true

// NativeExp runs the exponentiation in GMP. Operands must be non-negative.
func NativeExp(base, exponent, modulus *big.Int) *big.Int {
	var (
		b = new(gmp.Int).SetBytes(base.Bytes())
		e = new(gmp.Int).SetBytes(exponent.Bytes())
		m = new(gmp.Int).SetBytes(modulus.Bytes())
	)
	r := new(gmp.Int).Exp(b, e, m)
	return new(big.Int).SetBytes(r.Bytes())
}
