// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"context"
	"math/big"

	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"go.opentelemetry.io/otel"

	"github.com/luxfi/mpbridge/config"
	"github.com/luxfi/mpbridge/modexp"
	"github.com/luxfi/mpbridge/utils/timer/mockable"

	oteltrace "go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/luxfi/mpbridge/bridge"

// ComputeService evaluates a recorded batch. It must return exactly one
// result per request, in request order, or an error.
type ComputeService interface {
	Name() string
	Compute(ctx context.Context, requests []modexp.Request, modulus *big.Int) ([]*big.Int, error)
	ComputeVerified(ctx context.Context, requests []modexp.Request, modulus *big.Int) ([]modexp.Result, error)
	Close() error
}

// Bridge holds the process-wide pieces shared by every session: the
// configuration, the compute service and the direct-mode routine. Per-context
// state lives in State values.
type Bridge struct {
	config      config.Config
	log         log.Logger
	compute     ComputeService
	exp         modexp.ExpFunc
	placeholder *big.Int
	metrics     *metrics
	tracer      oteltrace.Tracer
	clock       mockable.Clock
}

// New validates cfg, registers the bridge metrics and logs the effective
// configuration. The returned Bridge owns svc and closes it on Shutdown.
func New(cfg config.Config, svc ComputeService, logger log.Logger, registerer metric.Registerer) (*Bridge, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	placeholder, err := cfg.PlaceholderValue()
	if err != nil {
		return nil, err
	}
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}

	if cfg.EnableNative && !modexp.NativeAvailable {
		logger.Warn("native exponentiation requested but not compiled in, using generic routine")
	}
	logger.Info("initialized modpow bridge",
		log.Bool("native", cfg.EnableNative && modexp.NativeAvailable),
		log.Bool("interception", cfg.EnableInterception),
		log.String("compute", svc.Name()),
		log.String("placeholder", placeholder.String()),
	)

	return &Bridge{
		config:      cfg,
		log:         logger,
		compute:     svc,
		exp:         modexp.Func(cfg.EnableNative),
		placeholder: placeholder,
		metrics:     m,
		tracer:      otel.Tracer(tracerName),
	}, nil
}

// NewState returns a State that computes direct calls with the bridge's
// routine and reports to its metrics.
func (b *Bridge) NewState() *State {
	return NewState(WithExp(b.exp), withMetrics(b.metrics))
}

// Clock returns the clock used to time sessions.
func (b *Bridge) Clock() *mockable.Clock {
	return &b.clock
}

// Shutdown releases the compute service.
func (b *Bridge) Shutdown() error {
	b.log.Info("shutting down modpow bridge",
		log.String("compute", b.compute.Name()),
	)
	return b.compute.Close()
}
