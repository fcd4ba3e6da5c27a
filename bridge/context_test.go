// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/mpbridge/modexp"
)

func TestModPowWithoutState(t *testing.T) {
	require := require.New(t)

	ctx := context.Background()
	_, ok := StateFromContext(ctx)
	require.False(ok)

	v, err := ModPow(ctx, big.NewInt(3), big.NewInt(5), big.NewInt(7))
	require.NoError(err)
	require.Equal("5", v.String())

	_, err = ModPow(ctx, big.NewInt(3), big.NewInt(5), big.NewInt(-7))
	require.ErrorIs(err, modexp.ErrInvalidModulus)
}

func TestModPowRoutesToAttachedState(t *testing.T) {
	require := require.New(t)

	s := NewState()
	ctx := WithState(context.Background(), s)
	got, ok := StateFromContext(ctx)
	require.True(ok)
	require.Same(s, got)

	require.NoError(s.StartRecording(nil))
	v, err := ModPow(ctx, big.NewInt(3), big.NewInt(5), big.NewInt(7))
	require.NoError(err)
	require.Equal("2", v.String())
	require.Equal(1, s.Len())
}

func TestStatesAreIndependent(t *testing.T) {
	require := require.New(t)

	a, b := NewState(), NewState()
	ctxA := WithState(context.Background(), a)
	ctxB := WithState(context.Background(), b)

	require.NoError(a.StartRecording(nil))
	_, err := ModPow(ctxA, big.NewInt(3), big.NewInt(5), big.NewInt(7))
	require.NoError(err)

	v, err := ModPow(ctxB, big.NewInt(3), big.NewInt(5), big.NewInt(11))
	require.NoError(err)
	require.Equal("1", v.String())
	require.Equal(Direct, b.Mode())
	require.Equal(1, a.Len())
	require.Zero(b.Len())
}

func TestNilStateIsNotAttached(t *testing.T) {
	ctx := WithState(context.Background(), nil)
	_, ok := StateFromContext(ctx)
	require.False(t, ok)
}
