// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package modexp

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrInvalidModulus  = errors.New("modulus must be positive")
	ErrNegativeOperand = errors.New("base and exponent must be non-negative")
)

// Request is a single exponentiation recorded during a dry run. The modulus is
// shared by the whole batch and is therefore not part of the request.
type Request struct {
	Base     *big.Int
	Exponent *big.Int
}

// NewRequest copies the operands so later mutation by the caller cannot change
// a recorded batch.
func NewRequest(base, exponent *big.Int) Request {
	return Request{
		Base:     new(big.Int).Set(base),
		Exponent: new(big.Int).Set(exponent),
	}
}

func (r Request) String() string {
	return fmt.Sprintf("%s^%s", r.Base, r.Exponent)
}

// Result is a computed request that still carries its operands, so a replay
// can check that it is being consumed by the same call that produced it.
type Result struct {
	Base     *big.Int
	Exponent *big.Int
	Modulus  *big.Int
	Value    *big.Int
}

// Matches reports whether the result was computed for exactly these operands.
func (r Result) Matches(base, exponent, modulus *big.Int) bool {
	if r.Base == nil || r.Exponent == nil || r.Modulus == nil {
		return false
	}
	return r.Base.Cmp(base) == 0 &&
		r.Exponent.Cmp(exponent) == 0 &&
		r.Modulus.Cmp(modulus) == 0
}

func (r Result) String() string {
	return fmt.Sprintf("%s^%s mod %s = %s", r.Base, r.Exponent, r.Modulus, r.Value)
}

// Validate checks the operands of an exponentiation.
func Validate(base, exponent, modulus *big.Int) error {
	if modulus == nil || modulus.Sign() <= 0 {
		return ErrInvalidModulus
	}
	if base == nil || exponent == nil || base.Sign() < 0 || exponent.Sign() < 0 {
		return ErrNegativeOperand
	}
	return nil
}
