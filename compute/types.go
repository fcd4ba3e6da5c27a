// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package compute provides batch modular exponentiation engines.
//
// A batch is a list of (base, exponent) requests sharing one modulus. Every
// engine returns exactly one result per request, in request order.
//
// Backends:
//   - pure: sequential, always available
//   - parallel: chunked fan-out over a bounded worker pool
//   - remote: JSON-RPC client for a compute server started with NewHandler
package compute

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/luxfi/mpbridge/modexp"
)

const (
	BackendPure     = "pure"
	BackendParallel = "parallel"
	BackendRemote   = "remote"
)

var (
	ErrInvalidWorkers   = errors.New("numWorkers must not be negative")
	ErrInvalidChunkSize = errors.New("chunkSize must be positive")
	ErrInvalidTimeout   = errors.New("timeout must not be negative")
	ErrNoEndpoint       = errors.New("remote backend requires an endpoint")
	ErrInvalidRequest   = errors.New("invalid request")
)

// Config for a compute engine.
type Config struct {
	Backend    string        `json:"backend"`
	NumWorkers int           `json:"numWorkers"` // 0 = runtime.NumCPU()
	ChunkSize  int           `json:"chunkSize"`  // requests per worker task
	Endpoint   string        `json:"endpoint"`   // remote backend URL
	Timeout    time.Duration `json:"timeout"`    // remote call timeout, 0 = none

	// EnableNative selects the GMP routine when it is compiled in. It is set
	// from the process configuration, not read from JSON.
	EnableNative bool `json:"-"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Backend:   BackendParallel,
		ChunkSize: 64,
		Timeout:   5 * time.Minute,
	}
}

func (c Config) Validate() error {
	switch {
	case c.NumWorkers < 0:
		return ErrInvalidWorkers
	case c.ChunkSize <= 0:
		return ErrInvalidChunkSize
	case c.Timeout < 0:
		return ErrInvalidTimeout
	case c.Backend == BackendRemote && c.Endpoint == "":
		return ErrNoEndpoint
	}
	return nil
}

// Service computes batches of exponentiations against a shared modulus.
type Service interface {
	Name() string

	// Compute returns base^exponent mod modulus for every request, in order.
	Compute(ctx context.Context, requests []modexp.Request, modulus *big.Int) ([]*big.Int, error)

	// ComputeVerified is Compute with every result carrying its operands.
	ComputeVerified(ctx context.Context, requests []modexp.Request, modulus *big.Int) ([]modexp.Result, error)

	Close() error
}

func validateBatch(requests []modexp.Request, modulus *big.Int) error {
	if modulus == nil || modulus.Sign() <= 0 {
		return modexp.ErrInvalidModulus
	}
	for i, r := range requests {
		if err := modexp.Validate(r.Base, r.Exponent, modulus); err != nil {
			return fmt.Errorf("%w %d: %w", ErrInvalidRequest, i, err)
		}
	}
	return nil
}

func withOperands(requests []modexp.Request, modulus *big.Int, values []*big.Int) []modexp.Result {
	results := make([]modexp.Result, len(requests))
	for i, r := range requests {
		results[i] = modexp.Result{
			Base:     r.Base,
			Exponent: r.Exponent,
			Modulus:  modulus,
			Value:    values[i],
		}
	}
	return results
}
