// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"math/big"

	"github.com/luxfi/mpbridge/modexp"
)

var defaultPlaceholder = big.NewInt(2)

// State is the per-context interception state. A State belongs to exactly one
// goroutine for its whole life and is never shared, so it carries no lock.
//
// The zero value is a usable State in Direct mode that computes with
// modexp.Exp.
type State struct {
	mode     mode
	modulus  *big.Int
	requests []modexp.Request
	recorded bool

	exp     modexp.ExpFunc
	calls   uint64
	metrics *metrics
}

// Option configures a State.
type Option func(*State)

// WithExp sets the routine used for Direct mode calls.
func WithExp(exp modexp.ExpFunc) Option {
	return func(s *State) {
		s.exp = exp
	}
}

func withMetrics(m *metrics) Option {
	return func(s *State) {
		s.metrics = m
	}
}

func NewState(opts ...Option) *State {
	s := &State{mode: direct{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ModPow is the interception point. Depending on the mode it computes
// base^exponent mod modulus, records the call and returns the placeholder, or
// returns the next precomputed answer.
func (s *State) ModPow(base, exponent, modulus *big.Int) (*big.Int, error) {
	if err := modexp.Validate(base, exponent, modulus); err != nil {
		return nil, err
	}
	s.calls++
	return s.current().modPow(s, base, exponent, modulus)
}

// Mode returns the current interception mode.
func (s *State) Mode() Mode {
	return s.current().kind()
}

// Modulus returns the shared modulus of the current batch, or nil if no call
// has been recorded since the last StartRecording.
func (s *State) Modulus() *big.Int {
	if s.modulus == nil {
		return nil
	}
	return new(big.Int).Set(s.modulus)
}

// Len returns the number of recorded requests.
func (s *State) Len() int {
	return len(s.requests)
}

// Pending returns the number of answers left to replay.
func (s *State) Pending() int {
	switch m := s.current().(type) {
	case *replaying:
		return m.pending()
	case *verifiedReplaying:
		return m.pending()
	default:
		return 0
	}
}

// Calls returns the number of interception point calls served by this State.
func (s *State) Calls() uint64 {
	return s.calls
}

func (s *State) current() mode {
	if s.mode == nil {
		return direct{}
	}
	return s.mode
}

func (s *State) expFunc() modexp.ExpFunc {
	if s.exp == nil {
		return modexp.Exp
	}
	return s.exp
}
