// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"context"
	"math/big"

	"github.com/luxfi/mpbridge/modexp"
)

type stateKey struct{}

// WithState attaches s to ctx. Work running under the returned context routes
// its exponentiations through s.
func WithState(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, stateKey{}, s)
}

func StateFromContext(ctx context.Context) (*State, bool) {
	s, ok := ctx.Value(stateKey{}).(*State)
	return s, ok && s != nil
}

// ModPow computes base^exponent mod modulus through the State attached to
// ctx. Without an attached State the call is computed directly.
func ModPow(ctx context.Context, base, exponent, modulus *big.Int) (*big.Int, error) {
	if s, ok := StateFromContext(ctx); ok {
		return s.ModPow(base, exponent, modulus)
	}
	if err := modexp.Validate(base, exponent, modulus); err != nil {
		return nil, err
	}
	return modexp.Exp(base, exponent, modulus), nil
}
