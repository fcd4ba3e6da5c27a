// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"context"
	"math/big"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/luxfi/mpbridge/modexp"
)

var _ Service = (*ParallelService)(nil)

func init() {
	Register(BackendParallel, 50, func(config Config) (Service, error) {
		return NewParallelService(config), nil
	})
}

// ParallelService splits a batch into chunks and computes them on a bounded
// pool of goroutines. Each result is written at its request's index, so the
// output order never depends on scheduling.
type ParallelService struct {
	exp        modexp.ExpFunc
	numWorkers int
	chunkSize  int
}

func NewParallelService(config Config) *ParallelService {
	numWorkers := config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	chunkSize := config.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultConfig().ChunkSize
	}
	return &ParallelService{
		exp:        modexp.Func(config.EnableNative),
		numWorkers: numWorkers,
		chunkSize:  chunkSize,
	}
}

func (*ParallelService) Name() string {
	return BackendParallel
}

func (p *ParallelService) Compute(ctx context.Context, requests []modexp.Request, modulus *big.Int) ([]*big.Int, error) {
	if err := validateBatch(requests, modulus); err != nil {
		return nil, err
	}

	results := make([]*big.Int, len(requests))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.numWorkers)
	for start := 0; start < len(requests); start += p.chunkSize {
		end := min(start+p.chunkSize, len(requests))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				results[i] = p.exp(requests[i].Base, requests[i].Exponent, modulus)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *ParallelService) ComputeVerified(ctx context.Context, requests []modexp.Request, modulus *big.Int) ([]modexp.Result, error) {
	values, err := p.Compute(ctx, requests, modulus)
	if err != nil {
		return nil, err
	}
	return withOperands(requests, modulus, values), nil
}

func (*ParallelService) Close() error {
	return nil
}
