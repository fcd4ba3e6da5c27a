// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/luxfi/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// Computation is work whose modular exponentiations go through ModPow with
// the context it is given. Run executes it twice, so it must issue the same
// calls in the same order both times and should not perform side effects
// that cannot be repeated.
type Computation[T any] func(ctx context.Context) (T, error)

// Run executes fn with its exponentiations batched. The first execution
// records every call and answers it with the placeholder, the batch is
// evaluated by the compute service, and the second execution is answered
// from those results. The second execution's return value is returned.
//
// The State attached to ctx is used when there is one, otherwise a fresh
// State is attached for the duration of the call. Any failure aborts the
// session and leaves the State in Direct mode.
//
// Run does not compare the two return values. The first execution saw
// placeholders, so its value is only meaningful when no call was recorded.
func Run[T any](ctx context.Context, b *Bridge, fn Computation[T]) (T, error) {
	return run(ctx, b, fn, false)
}

// RunVerified is Run with the operands of every replayed call checked against
// the recorded ones. A divergence fails with a *DivergenceError naming the
// first call that differs.
func RunVerified[T any](ctx context.Context, b *Bridge, fn Computation[T]) (T, error) {
	return run(ctx, b, fn, true)
}

func run[T any](ctx context.Context, b *Bridge, fn Computation[T], verified bool) (result T, err error) {
	s, ok := StateFromContext(ctx)
	if !ok {
		s = b.NewState()
		ctx = WithState(ctx, s)
	}

	b.metrics.markRun()
	if !b.config.EnableInterception {
		b.metrics.markPassThrough()
		return fn(ctx)
	}

	sessionID := uuid.NewString()
	ctx, span := b.tracer.Start(ctx, "bridge.Run", oteltrace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.Bool("verified", verified),
	))
	defer span.End()

	// A State that is already in a session belongs to an enclosing Run and
	// is left untouched.
	if err := s.StartRecording(b.placeholder); err != nil {
		b.metrics.markFailure()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, fmt.Errorf("record: %w", err)
	}

	done := false
	defer func() {
		if done {
			return
		}
		s.Abort()
		b.metrics.markFailure()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			b.log.Warn("modpow session aborted",
				log.String("session", sessionID),
				log.Err(err),
			)
		}
	}()

	start := b.clock.Time()
	provisional, err := phase(ctx, b, "record", fn)
	if err != nil {
		return result, fmt.Errorf("record: %w", err)
	}
	requests, err := s.StopRecording()
	if err != nil {
		return result, fmt.Errorf("record: %w", err)
	}
	recordTime := b.clock.Since(start)
	b.metrics.markRecorded(len(requests), recordTime)
	span.SetAttributes(attribute.Int("batch.size", len(requests)))

	if len(requests) == 0 {
		s.Reset()
		done = true
		b.log.Debug("modpow session recorded no calls",
			log.String("session", sessionID),
			log.Duration("record", recordTime),
		)
		return provisional, nil
	}
	b.log.Info("modpow batch recorded",
		log.String("session", sessionID),
		log.Int("requests", len(requests)),
		log.Duration("record", recordTime),
	)

	computeStart := b.clock.Time()
	if err := b.computeBatch(ctx, s, verified); err != nil {
		return result, fmt.Errorf("compute: %w", err)
	}
	computeTime := b.clock.Since(computeStart)
	b.metrics.markComputed(computeTime)

	replayStart := b.clock.Time()
	final, err := phase(ctx, b, "replay", fn)
	if err != nil {
		return result, fmt.Errorf("replay: %w", err)
	}
	if verified {
		err = s.StopVerifiedReplay()
	} else {
		err = s.StopReplay()
	}
	if err != nil {
		return result, fmt.Errorf("replay: %w", err)
	}
	s.Reset()
	done = true

	b.metrics.markReplayed(b.clock.Since(replayStart))
	b.log.Info("modpow batch replayed",
		log.String("session", sessionID),
		log.Int("requests", len(requests)),
		log.Duration("compute", computeTime),
		log.Duration("recordAndCompute", recordTime+computeTime),
		log.Duration("total", b.clock.Since(start)),
	)
	return final, nil
}

// phase runs one execution of fn under a child span.
func phase[T any](ctx context.Context, b *Bridge, name string, fn Computation[T]) (T, error) {
	ctx, span := b.tracer.Start(ctx, "bridge."+name)
	defer span.End()

	v, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
	}
	return v, err
}

// computeBatch evaluates the recorded batch of s and switches s to replay.
func (b *Bridge) computeBatch(ctx context.Context, s *State, verified bool) error {
	ctx, span := b.tracer.Start(ctx, "bridge.compute", oteltrace.WithAttributes(
		attribute.String("compute.service", b.compute.Name()),
		attribute.Int("batch.size", len(s.requests)),
	))
	defer span.End()

	if verified {
		answers, err := b.compute.ComputeVerified(ctx, s.requests, s.Modulus())
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("%w: %w", ErrCompute, err)
		}
		return s.StartVerifiedReplay(answers)
	}

	answers, err := b.compute.Compute(ctx, s.requests, s.Modulus())
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %w", ErrCompute, err)
	}
	return s.StartReplay(answers)
}
