// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/luxfi/mpbridge/modexp"
)

// All of these are fatal to the session that produced them. They signal a
// programming error in the caller, never a transient condition, and must not
// be retried.
var (
	ErrIllegalTransition = errors.New("illegal session transition")
	ErrQueueNotEmpty     = errors.New("request queue not empty")
	ErrModulusConflict   = errors.New("modulus mismatch")
	ErrAnswerCount       = errors.New("answer count does not match recorded requests")
	ErrAnswersExhausted  = errors.New("no precomputed answer left to replay")
	ErrUnconsumedAnswers = errors.New("replay stopped with unconsumed answers")
	ErrOperandMismatch   = errors.New("replayed call does not match recorded operands")
	ErrCompute           = errors.New("batch compute failed")
)

// DivergenceError is returned by a verified replay when the call at Index was
// issued with different operands than the recorded one.
type DivergenceError struct {
	Index    int
	Recorded modexp.Result
	Base     *big.Int
	Exponent *big.Int
	Modulus  *big.Int
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("%s at call %d: recorded %s^%s mod %s, replayed %s^%s mod %s",
		ErrOperandMismatch, e.Index,
		e.Recorded.Base, e.Recorded.Exponent, e.Recorded.Modulus,
		e.Base, e.Exponent, e.Modulus,
	)
}

func (*DivergenceError) Unwrap() error {
	return ErrOperandMismatch
}

// IsDivergence reports whether err shows that the record and replay passes of
// a computation issued different exponentiation sequences.
func IsDivergence(err error) bool {
	return errors.Is(err, ErrAnswersExhausted) ||
		errors.Is(err, ErrUnconsumedAnswers) ||
		errors.Is(err, ErrOperandMismatch)
}

func illegal(op string, from Mode) error {
	return fmt.Errorf("%w: %s while %s", ErrIllegalTransition, op, from)
}
