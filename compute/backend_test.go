// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"context"
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/mpbridge/modexp"
)

func randomBatch(rng *rand.Rand, n, bits int) ([]modexp.Request, *big.Int) {
	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	modulus := new(big.Int).Rand(rng, limit)
	modulus.SetBit(modulus, bits-1, 1)

	requests := make([]modexp.Request, n)
	for i := range requests {
		requests[i] = modexp.Request{
			Base:     new(big.Int).Rand(rng, modulus),
			Exponent: new(big.Int).Rand(rng, limit),
		}
	}
	return requests, modulus
}

func testServices() []Service {
	return []Service{
		NewPureService(DefaultConfig()),
		NewParallelService(Config{NumWorkers: 3, ChunkSize: 5}),
		NewParallelService(Config{NumWorkers: 1, ChunkSize: 1}),
	}
}

func TestServicesMatchMathBig(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{0, 1, 17, 100} {
		requests, modulus := randomBatch(rng, n, 512)
		for _, svc := range testServices() {
			results, err := svc.Compute(context.Background(), requests, modulus)
			require.NoError(t, err)
			require.Len(t, results, n)
			for i, r := range requests {
				want := new(big.Int).Exp(r.Base, r.Exponent, modulus)
				require.Zero(t, want.Cmp(results[i]), "%s request %d", svc.Name(), i)
			}
		}
	}
}

func TestServicesScenario(t *testing.T) {
	requests := []modexp.Request{
		{Base: big.NewInt(3), Exponent: big.NewInt(5)},
		{Base: big.NewInt(2), Exponent: big.NewInt(6)},
	}
	for _, svc := range testServices() {
		results, err := svc.Compute(context.Background(), requests, big.NewInt(7))
		require.NoError(t, err)
		require.Len(t, results, 2)
		require.Equal(t, "5", results[0].String())
		require.Equal(t, "1", results[1].String())
	}
}

func TestServicesComputeVerified(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	requests, modulus := randomBatch(rng, 20, 256)
	for _, svc := range testServices() {
		results, err := svc.ComputeVerified(context.Background(), requests, modulus)
		require.NoError(t, err)
		require.Len(t, results, len(requests))
		for i, r := range requests {
			require.True(t, results[i].Matches(r.Base, r.Exponent, modulus))
			require.Zero(t, new(big.Int).Exp(r.Base, r.Exponent, modulus).Cmp(results[i].Value))
		}
	}
}

func TestServicesRejectInvalidBatch(t *testing.T) {
	valid := []modexp.Request{{Base: big.NewInt(2), Exponent: big.NewInt(3)}}
	negative := []modexp.Request{
		{Base: big.NewInt(2), Exponent: big.NewInt(3)},
		{Base: big.NewInt(-2), Exponent: big.NewInt(3)},
	}
	for _, svc := range testServices() {
		_, err := svc.Compute(context.Background(), valid, big.NewInt(0))
		require.ErrorIs(t, err, modexp.ErrInvalidModulus)

		_, err = svc.Compute(context.Background(), negative, big.NewInt(7))
		require.ErrorIs(t, err, ErrInvalidRequest)
		require.ErrorIs(t, err, modexp.ErrNegativeOperand)
	}
}

func TestServicesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rng := rand.New(rand.NewSource(3))
	requests, modulus := randomBatch(rng, 40, 128)
	for _, svc := range testServices() {
		_, err := svc.Compute(ctx, requests, modulus)
		require.ErrorIs(t, err, context.Canceled)
	}
}
