// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package workload provides ElGamal re-encryption over Z_p* as a sample
// computation for the bridge. A re-encryption round issues two
// exponentiations per ciphertext, all against the group prime.
package workload

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/luxfi/mpbridge/bridge"
)

const minBits = 16

var (
	ErrGroupTooSmall  = fmt.Errorf("group prime must have at least %d bits", minBits)
	ErrLengthMismatch = errors.New("ciphertexts and randomness differ in length")
	ErrNotInvertible  = errors.New("ciphertext component is not invertible")

	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Group is the multiplicative group of integers modulo the prime P, with
// generator G.
type Group struct {
	P *big.Int
	G *big.Int
}

// GenerateGroup draws a random prime of the given size.
func GenerateGroup(random io.Reader, bits int) (Group, error) {
	if bits < minBits {
		return Group{}, ErrGroupTooSmall
	}
	p, err := rand.Prime(random, bits)
	if err != nil {
		return Group{}, err
	}
	return Group{P: p, G: new(big.Int).Set(two)}, nil
}

// RandomExponent returns a uniform exponent in [1, P-2].
func (g Group) RandomExponent(random io.Reader) (*big.Int, error) {
	limit := new(big.Int).Sub(g.P, two)
	r, err := rand.Int(random, limit)
	if err != nil {
		return nil, err
	}
	return r.Add(r, one), nil
}

// RandomExponents returns n exponents from RandomExponent.
func (g Group) RandomExponents(random io.Reader, n int) ([]*big.Int, error) {
	rs := make([]*big.Int, n)
	for i := range rs {
		r, err := g.RandomExponent(random)
		if err != nil {
			return nil, err
		}
		rs[i] = r
	}
	return rs, nil
}

// RandomMessage returns a uniform element of Z_p*.
func (g Group) RandomMessage(random io.Reader) (*big.Int, error) {
	limit := new(big.Int).Sub(g.P, one)
	m, err := rand.Int(random, limit)
	if err != nil {
		return nil, err
	}
	return m.Add(m, one), nil
}

type KeyPair struct {
	Group   Group
	Private *big.Int
	Public  *big.Int
}

func GenerateKey(random io.Reader, g Group) (KeyPair, error) {
	x, err := g.RandomExponent(random)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{
		Group:   g,
		Private: x,
		Public:  new(big.Int).Exp(g.G, x, g.P),
	}, nil
}

// Ciphertext is the pair (G^r, m*Y^r).
type Ciphertext struct {
	A *big.Int
	B *big.Int
}

// Encrypt encrypts m under pub with randomness r.
func Encrypt(g Group, pub, m, r *big.Int) Ciphertext {
	a := new(big.Int).Exp(g.G, r, g.P)
	b := new(big.Int).Exp(pub, r, g.P)
	b.Mul(b, m)
	b.Mod(b, g.P)
	return Ciphertext{A: a, B: b}
}

// Decrypt recovers the message of ct.
func Decrypt(key KeyPair, ct Ciphertext) (*big.Int, error) {
	p := key.Group.P
	shared := new(big.Int).Exp(ct.A, key.Private, p)
	if shared.ModInverse(shared, p) == nil {
		return nil, ErrNotInvertible
	}
	m := shared.Mul(shared, ct.B)
	return m.Mod(m, p), nil
}

// ReEncrypt multiplies fresh randomness into every ciphertext, so that
// (A, B) becomes (A*G^r, B*Y^r). Both exponentiations go through
// bridge.ModPow with ctx, so under bridge.Run the whole round is evaluated
// as one batch.
func ReEncrypt(ctx context.Context, g Group, pub *big.Int, cts []Ciphertext, rs []*big.Int) ([]Ciphertext, error) {
	if len(cts) != len(rs) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(cts), len(rs))
	}

	out := make([]Ciphertext, len(cts))
	for i, ct := range cts {
		gr, err := bridge.ModPow(ctx, g.G, rs[i], g.P)
		if err != nil {
			return nil, fmt.Errorf("ciphertext %d: %w", i, err)
		}
		yr, err := bridge.ModPow(ctx, pub, rs[i], g.P)
		if err != nil {
			return nil, fmt.Errorf("ciphertext %d: %w", i, err)
		}

		a := new(big.Int).Mul(gr, ct.A)
		b := new(big.Int).Mul(yr, ct.B)
		out[i] = Ciphertext{
			A: a.Mod(a, g.P),
			B: b.Mod(b, g.P),
		}
	}
	return out, nil
}
