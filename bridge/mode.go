// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"fmt"
	"math/big"

	"github.com/luxfi/mpbridge/modexp"
)

// Mode is the interception mode of a State.
type Mode uint8

const (
	Direct Mode = iota
	Recording
	Replaying
	ReplayingVerified
)

func (m Mode) String() string {
	switch m {
	case Direct:
		return "direct"
	case Recording:
		return "recording"
	case Replaying:
		return "replaying"
	case ReplayingVerified:
		return "replaying-verified"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// mode is the variant held by a State. Each variant owns the data only it
// needs, so an answer can only be popped by a replaying variant.
type mode interface {
	kind() Mode
	modPow(s *State, base, exponent, modulus *big.Int) (*big.Int, error)
}

var (
	_ mode = direct{}
	_ mode = (*recording)(nil)
	_ mode = (*replaying)(nil)
	_ mode = (*verifiedReplaying)(nil)
)

type direct struct{}

func (direct) kind() Mode { return Direct }

func (direct) modPow(s *State, base, exponent, modulus *big.Int) (*big.Int, error) {
	s.metrics.markDirect()
	return s.expFunc()(base, exponent, modulus), nil
}

type recording struct {
	placeholder *big.Int
}

func (*recording) kind() Mode { return Recording }

func (r *recording) modPow(s *State, base, exponent, modulus *big.Int) (*big.Int, error) {
	switch {
	case s.modulus == nil:
		s.modulus = new(big.Int).Set(modulus)
	case s.modulus.Cmp(modulus) != 0:
		return nil, fmt.Errorf("%w: session uses %s, call %d uses %s",
			ErrModulusConflict, s.modulus, len(s.requests), modulus)
	}
	s.requests = append(s.requests, modexp.NewRequest(base, exponent))
	return new(big.Int).Set(r.placeholder), nil
}

type replaying struct {
	answers []*big.Int
	next    int
}

func (*replaying) kind() Mode { return Replaying }

func (r *replaying) modPow(*State, *big.Int, *big.Int, *big.Int) (*big.Int, error) {
	if r.next == len(r.answers) {
		return nil, fmt.Errorf("%w: call %d of %d", ErrAnswersExhausted, r.next, len(r.answers))
	}
	answer := r.answers[r.next]
	r.answers[r.next] = nil
	r.next++
	return answer, nil
}

func (r *replaying) pending() int {
	return len(r.answers) - r.next
}

type verifiedReplaying struct {
	answers []modexp.Result
	next    int
}

func (*verifiedReplaying) kind() Mode { return ReplayingVerified }

func (r *verifiedReplaying) modPow(_ *State, base, exponent, modulus *big.Int) (*big.Int, error) {
	if r.next == len(r.answers) {
		return nil, fmt.Errorf("%w: call %d of %d", ErrAnswersExhausted, r.next, len(r.answers))
	}
	answer := r.answers[r.next]
	if !answer.Matches(base, exponent, modulus) {
		return nil, &DivergenceError{
			Index:    r.next,
			Recorded: answer,
			Base:     new(big.Int).Set(base),
			Exponent: new(big.Int).Set(exponent),
			Modulus:  new(big.Int).Set(modulus),
		}
	}
	r.answers[r.next] = modexp.Result{}
	r.next++
	return answer.Value, nil
}

func (r *verifiedReplaying) pending() int {
	return len(r.answers) - r.next
}
