// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/luxfi/mpbridge/modexp"
)

// StartRecording switches to Recording. Every interception point call until
// StopRecording is queued and answered with placeholder. A nil placeholder
// means 2.
func (s *State) StartRecording(placeholder *big.Int) error {
	if m := s.Mode(); m != Direct {
		return illegal("start recording", m)
	}
	if len(s.requests) != 0 {
		return fmt.Errorf("%w: %d requests left from a previous session", ErrQueueNotEmpty, len(s.requests))
	}
	if placeholder == nil {
		placeholder = defaultPlaceholder
	}
	s.mode = &recording{placeholder: new(big.Int).Set(placeholder)}
	s.modulus = nil
	s.recorded = false
	return nil
}

// StopRecording switches back to Direct and returns the recorded batch in
// issue order. The queue itself is kept until Reset.
func (s *State) StopRecording() ([]modexp.Request, error) {
	if m := s.Mode(); m != Recording {
		return nil, illegal("stop recording", m)
	}
	s.mode = direct{}
	s.recorded = true
	return slices.Clone(s.requests), nil
}

// StartReplay switches to Replaying. answers must hold exactly one result per
// recorded request, in recorded order.
func (s *State) StartReplay(answers []*big.Int) error {
	if err := s.checkReplayable("start replay", len(answers)); err != nil {
		return err
	}
	s.mode = &replaying{answers: slices.Clone(answers)}
	return nil
}

// StopReplay switches back to Direct. It fails if any answer was not consumed.
func (s *State) StopReplay() error {
	m, ok := s.current().(*replaying)
	if !ok {
		return illegal("stop replay", s.Mode())
	}
	if n := m.pending(); n != 0 {
		return fmt.Errorf("%w: %d of %d left", ErrUnconsumedAnswers, n, len(m.answers))
	}
	s.mode = direct{}
	return nil
}

// StartVerifiedReplay is StartReplay for results that carry their operands.
// Each replayed call is checked against its result's operands.
func (s *State) StartVerifiedReplay(answers []modexp.Result) error {
	if err := s.checkReplayable("start verified replay", len(answers)); err != nil {
		return err
	}
	s.mode = &verifiedReplaying{answers: slices.Clone(answers)}
	return nil
}

func (s *State) StopVerifiedReplay() error {
	m, ok := s.current().(*verifiedReplaying)
	if !ok {
		return illegal("stop verified replay", s.Mode())
	}
	if n := m.pending(); n != 0 {
		return fmt.Errorf("%w: %d of %d left", ErrUnconsumedAnswers, n, len(m.answers))
	}
	s.mode = direct{}
	return nil
}

// Reset clears the recorded batch. It is called once a record, compute and
// replay cycle is complete.
func (s *State) Reset() {
	s.requests = nil
	s.modulus = nil
	s.recorded = false
}

// Abort returns the State to Direct and drops every queue, whatever the
// current mode. Used after a fatal session error.
func (s *State) Abort() {
	s.mode = direct{}
	s.Reset()
}

func (s *State) checkReplayable(op string, answers int) error {
	if m := s.Mode(); m != Direct || !s.recorded {
		if m == Direct {
			return fmt.Errorf("%w: %s without a recorded batch", ErrIllegalTransition, op)
		}
		return illegal(op, m)
	}
	if answers != len(s.requests) {
		return fmt.Errorf("%w: %d != %d", ErrAnswerCount, answers, len(s.requests))
	}
	return nil
}
