// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"context"
	"math/big"

	"github.com/luxfi/mpbridge/modexp"
)

// cancelCheckInterval is how many exponentiations run between context checks.
const cancelCheckInterval = 16

var _ Service = (*PureService)(nil)

func init() {
	Register(BackendPure, 0, func(config Config) (Service, error) {
		return NewPureService(config), nil
	})
}

// PureService computes a batch sequentially on the calling goroutine.
type PureService struct {
	exp modexp.ExpFunc
}

func NewPureService(config Config) *PureService {
	return &PureService{exp: modexp.Func(config.EnableNative)}
}

func (*PureService) Name() string {
	return BackendPure
}

func (p *PureService) Compute(ctx context.Context, requests []modexp.Request, modulus *big.Int) ([]*big.Int, error) {
	if err := validateBatch(requests, modulus); err != nil {
		return nil, err
	}

	results := make([]*big.Int, len(requests))
	for i, r := range requests {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		results[i] = p.exp(r.Base, r.Exponent, modulus)
	}
	return results, nil
}

func (p *PureService) ComputeVerified(ctx context.Context, requests []modexp.Request, modulus *big.Int) ([]modexp.Result, error) {
	values, err := p.Compute(ctx, requests, modulus)
	if err != nil {
		return nil, err
	}
	return withOperands(requests, modulus, values), nil
}

func (*PureService) Close() error {
	return nil
}
