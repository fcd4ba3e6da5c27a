// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//go:build !cgo || !gmp

package modexp

import "math/big"

const NativeAvailable = false

func NativeExp(base, exponent, modulus *big.Int) *big.Int {
	return Exp(base, exponent, modulus)
}
