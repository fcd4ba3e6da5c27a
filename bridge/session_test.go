// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/mpbridge/modexp"
)

func ints(vs ...int64) []*big.Int {
	out := make([]*big.Int, len(vs))
	for i, v := range vs {
		out[i] = big.NewInt(v)
	}
	return out
}

func record(t *testing.T, s *State, modulus int64, calls [][2]int64) []modexp.Request {
	t.Helper()
	require := require.New(t)

	require.NoError(s.StartRecording(nil))
	for _, c := range calls {
		v, err := s.ModPow(big.NewInt(c[0]), big.NewInt(c[1]), big.NewInt(modulus))
		require.NoError(err)
		require.Equal("2", v.String())
	}
	requests, err := s.StopRecording()
	require.NoError(err)
	return requests
}

func TestStopRecordingReturnsCallsInOrder(t *testing.T) {
	tests := []struct {
		name  string
		calls [][2]int64
	}{
		{"none", nil},
		{"one", [][2]int64{{3, 5}}},
		{"many", [][2]int64{{3, 5}, {2, 6}, {3, 5}, {0, 0}, {6, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			s := NewState()
			requests := record(t, s, 7, tt.calls)
			require.Len(requests, len(tt.calls))
			for i, c := range tt.calls {
				require.Equal(big.NewInt(c[0]).String(), requests[i].Base.String())
				require.Equal(big.NewInt(c[1]).String(), requests[i].Exponent.String())
			}
			require.Equal(Direct, s.Mode())
			require.Equal(len(tt.calls), s.Len())
		})
	}
}

func TestRecordingCopiesOperands(t *testing.T) {
	require := require.New(t)

	s := NewState()
	require.NoError(s.StartRecording(big.NewInt(9)))

	base, exponent := big.NewInt(3), big.NewInt(5)
	v, err := s.ModPow(base, exponent, big.NewInt(7))
	require.NoError(err)
	require.Equal("9", v.String())

	base.SetInt64(100)
	exponent.SetInt64(100)
	v.SetInt64(100)

	v, err = s.ModPow(big.NewInt(2), big.NewInt(6), big.NewInt(7))
	require.NoError(err)
	require.Equal("9", v.String())

	requests, err := s.StopRecording()
	require.NoError(err)
	require.Equal("3^5", requests[0].String())
	require.Equal("2^6", requests[1].String())
}

func TestConcreteScenario(t *testing.T) {
	require := require.New(t)

	s := NewState()
	requests := record(t, s, 7, [][2]int64{{3, 5}, {2, 6}})
	require.Equal([]string{"3^5", "2^6"}, []string{requests[0].String(), requests[1].String()})
	require.Equal("7", s.Modulus().String())

	require.NoError(s.StartReplay(ints(5, 1)))
	require.Equal(Replaying, s.Mode())
	require.Equal(2, s.Pending())

	v, err := s.ModPow(big.NewInt(3), big.NewInt(5), big.NewInt(7))
	require.NoError(err)
	require.Equal("5", v.String())
	v, err = s.ModPow(big.NewInt(2), big.NewInt(6), big.NewInt(7))
	require.NoError(err)
	require.Equal("1", v.String())

	require.NoError(s.StopReplay())
	require.Equal(Direct, s.Mode())
	s.Reset()
	require.Zero(s.Len())
	require.Nil(s.Modulus())
}

func TestStartReplayAnswerCountMismatch(t *testing.T) {
	require := require.New(t)

	s := NewState()
	record(t, s, 7, [][2]int64{{3, 5}, {2, 6}})

	for _, answers := range [][]*big.Int{nil, ints(5), ints(5, 1, 1)} {
		err := s.StartReplay(answers)
		require.ErrorIs(err, ErrAnswerCount)
		require.Equal(Direct, s.Mode())
		require.Equal(2, s.Len())
		require.Zero(s.Pending())
		require.Equal("7", s.Modulus().String())
	}

	err := s.StartVerifiedReplay([]modexp.Result{{}})
	require.ErrorIs(err, ErrAnswerCount)
	require.Equal(Direct, s.Mode())

	// The untouched batch can still be replayed.
	require.NoError(s.StartReplay(ints(5, 1)))
}

func TestStopReplayRequiresExactConsumption(t *testing.T) {
	require := require.New(t)

	s := NewState()
	record(t, s, 7, [][2]int64{{3, 5}, {2, 6}})
	require.NoError(s.StartReplay(ints(5, 1)))

	require.ErrorIs(s.StopReplay(), ErrUnconsumedAnswers)
	require.Equal(Replaying, s.Mode())

	_, err := s.ModPow(big.NewInt(3), big.NewInt(5), big.NewInt(7))
	require.NoError(err)
	require.ErrorIs(s.StopReplay(), ErrUnconsumedAnswers)
	require.Equal(1, s.Pending())

	_, err = s.ModPow(big.NewInt(2), big.NewInt(6), big.NewInt(7))
	require.NoError(err)
	require.NoError(s.StopReplay())
	require.Equal(Direct, s.Mode())
}

func TestReplayExhausted(t *testing.T) {
	require := require.New(t)

	s := NewState()
	record(t, s, 7, [][2]int64{{3, 5}})
	require.NoError(s.StartReplay(ints(5)))

	_, err := s.ModPow(big.NewInt(3), big.NewInt(5), big.NewInt(7))
	require.NoError(err)
	_, err = s.ModPow(big.NewInt(3), big.NewInt(5), big.NewInt(7))
	require.ErrorIs(err, ErrAnswersExhausted)
	require.True(IsDivergence(err))
}

func TestModulusConflictKeepsFirstModulus(t *testing.T) {
	require := require.New(t)

	s := NewState()
	require.NoError(s.StartRecording(nil))
	_, err := s.ModPow(big.NewInt(3), big.NewInt(5), big.NewInt(7))
	require.NoError(err)

	_, err = s.ModPow(big.NewInt(2), big.NewInt(6), big.NewInt(11))
	require.ErrorIs(err, ErrModulusConflict)
	require.Equal("7", s.Modulus().String())
	require.Equal(1, s.Len())
	require.Equal(Recording, s.Mode())
}

func TestIllegalTransitions(t *testing.T) {
	require := require.New(t)

	s := NewState()
	_, err := s.StopRecording()
	require.ErrorIs(err, ErrIllegalTransition)
	require.ErrorIs(s.StopReplay(), ErrIllegalTransition)
	require.ErrorIs(s.StopVerifiedReplay(), ErrIllegalTransition)

	// Replay needs a recorded batch, even an empty one.
	require.ErrorIs(s.StartReplay(nil), ErrIllegalTransition)

	require.NoError(s.StartRecording(nil))
	require.ErrorIs(s.StartRecording(nil), ErrIllegalTransition)
	require.ErrorIs(s.StartReplay(nil), ErrIllegalTransition)
	require.ErrorIs(s.StopReplay(), ErrIllegalTransition)

	_, err = s.StopRecording()
	require.NoError(err)
	require.NoError(s.StartReplay(nil))
	require.ErrorIs(s.StartRecording(nil), ErrIllegalTransition)
	_, err = s.StopRecording()
	require.ErrorIs(err, ErrIllegalTransition)
	require.ErrorIs(s.StopVerifiedReplay(), ErrIllegalTransition)
	require.NoError(s.StopReplay())
}

func TestStartRecordingNeedsReset(t *testing.T) {
	require := require.New(t)

	s := NewState()
	record(t, s, 7, [][2]int64{{3, 5}})

	require.ErrorIs(s.StartRecording(nil), ErrQueueNotEmpty)
	require.Equal(Direct, s.Mode())

	s.Reset()
	require.NoError(s.StartRecording(nil))
}

func TestVerifiedReplayDivergence(t *testing.T) {
	require := require.New(t)

	s := NewState()
	calls := [][2]int64{{3, 5}, {2, 6}, {4, 2}}
	requests := record(t, s, 7, calls)

	results := make([]modexp.Result, len(requests))
	for i, r := range requests {
		results[i] = modexp.Result{
			Base:     r.Base,
			Exponent: r.Exponent,
			Modulus:  big.NewInt(7),
			Value:    new(big.Int).Exp(r.Base, r.Exponent, big.NewInt(7)),
		}
	}
	require.NoError(s.StartVerifiedReplay(results))
	require.Equal(ReplayingVerified, s.Mode())

	v, err := s.ModPow(big.NewInt(3), big.NewInt(5), big.NewInt(7))
	require.NoError(err)
	require.Equal("5", v.String())

	// Base altered on the second call.
	_, err = s.ModPow(big.NewInt(5), big.NewInt(6), big.NewInt(7))
	require.ErrorIs(err, ErrOperandMismatch)
	require.True(IsDivergence(err))

	var divergence *DivergenceError
	require.ErrorAs(err, &divergence)
	require.Equal(1, divergence.Index)
	require.Equal("2^6 mod 7 = 1", divergence.Recorded.String())
	require.Equal("5", divergence.Base.String())
	require.Equal(2, s.Pending())
}

func TestVerifiedReplayMatching(t *testing.T) {
	require := require.New(t)

	s := NewState()
	record(t, s, 7, [][2]int64{{3, 5}, {2, 6}})
	require.NoError(s.StartVerifiedReplay([]modexp.Result{
		{Base: big.NewInt(3), Exponent: big.NewInt(5), Modulus: big.NewInt(7), Value: big.NewInt(5)},
		{Base: big.NewInt(2), Exponent: big.NewInt(6), Modulus: big.NewInt(7), Value: big.NewInt(1)},
	}))

	require.ErrorIs(s.StopVerifiedReplay(), ErrUnconsumedAnswers)
	for _, want := range []string{"5", "1"} {
		base, exponent := big.NewInt(3), big.NewInt(5)
		if want == "1" {
			base, exponent = big.NewInt(2), big.NewInt(6)
		}
		v, err := s.ModPow(base, exponent, big.NewInt(7))
		require.NoError(err)
		require.Equal(want, v.String())
	}
	require.NoError(s.StopVerifiedReplay())
	require.Equal(Direct, s.Mode())
}

func TestInvalidOperandsRejectedInEveryMode(t *testing.T) {
	require := require.New(t)

	s := NewState()
	_, err := s.ModPow(big.NewInt(3), big.NewInt(5), big.NewInt(0))
	require.ErrorIs(err, modexp.ErrInvalidModulus)

	require.NoError(s.StartRecording(nil))
	_, err = s.ModPow(big.NewInt(-3), big.NewInt(5), big.NewInt(7))
	require.ErrorIs(err, modexp.ErrNegativeOperand)
	require.Zero(s.Len())
	require.Nil(s.Modulus())
	require.Zero(s.Calls())
}

func TestAbort(t *testing.T) {
	require := require.New(t)

	s := NewState()
	record(t, s, 7, [][2]int64{{3, 5}, {2, 6}})
	require.NoError(s.StartReplay(ints(5, 1)))

	s.Abort()
	require.Equal(Direct, s.Mode())
	require.Zero(s.Len())
	require.Zero(s.Pending())
	require.Nil(s.Modulus())

	// A fresh session works after an abort.
	record(t, s, 11, [][2]int64{{2, 10}})
	require.NoError(s.StartReplay(ints(1)))
}

func TestDirectMode(t *testing.T) {
	require := require.New(t)

	var calls int
	s := NewState(WithExp(func(base, exponent, modulus *big.Int) *big.Int {
		calls++
		return modexp.Exp(base, exponent, modulus)
	}))
	v, err := s.ModPow(big.NewInt(4), big.NewInt(13), big.NewInt(497))
	require.NoError(err)
	require.Equal("445", v.String())
	require.Equal(1, calls)
	require.Equal(uint64(1), s.Calls())

	var zero State
	v, err = zero.ModPow(big.NewInt(3), big.NewInt(5), big.NewInt(7))
	require.NoError(err)
	require.Equal("5", v.String())
	require.Equal(Direct, zero.Mode())
}

func TestModeString(t *testing.T) {
	require.Equal(t, "direct", Direct.String())
	require.Equal(t, "recording", Recording.String())
	require.Equal(t, "replaying", Replaying.String())
	require.Equal(t, "replaying-verified", ReplayingVerified.String())
	require.Equal(t, "mode(9)", Mode(9).String())
}
