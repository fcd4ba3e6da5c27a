// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/luxfi/mpbridge/modexp"
)

var errMalformedInt = errors.New("malformed hex integer")

// Integers travel as lower-case hex without prefix.

type WireRequest struct {
	Base     string `json:"base"`
	Exponent string `json:"exponent"`
}

type WireResult struct {
	Base     string `json:"base"`
	Exponent string `json:"exponent"`
	Modulus  string `json:"modulus"`
	Value    string `json:"value"`
}

type ComputeArgs struct {
	Modulus  string        `json:"modulus"`
	Requests []WireRequest `json:"requests"`
}

type ComputeReply struct {
	Results []string `json:"results"`
}

type ComputeVerifiedReply struct {
	Results []WireResult `json:"results"`
}

func encodeInt(x *big.Int) string {
	if x == nil {
		return ""
	}
	return x.Text(16)
}

func decodeInt(s string) (*big.Int, error) {
	x, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errMalformedInt, s)
	}
	return x, nil
}

func encodeArgs(requests []modexp.Request, modulus *big.Int) *ComputeArgs {
	args := &ComputeArgs{
		Modulus:  encodeInt(modulus),
		Requests: make([]WireRequest, len(requests)),
	}
	for i, r := range requests {
		args.Requests[i] = WireRequest{
			Base:     encodeInt(r.Base),
			Exponent: encodeInt(r.Exponent),
		}
	}
	return args
}

func (a *ComputeArgs) decode() ([]modexp.Request, *big.Int, error) {
	modulus, err := decodeInt(a.Modulus)
	if err != nil {
		return nil, nil, fmt.Errorf("modulus: %w", err)
	}
	requests := make([]modexp.Request, len(a.Requests))
	for i, r := range a.Requests {
		base, err := decodeInt(r.Base)
		if err != nil {
			return nil, nil, fmt.Errorf("request %d base: %w", i, err)
		}
		exponent, err := decodeInt(r.Exponent)
		if err != nil {
			return nil, nil, fmt.Errorf("request %d exponent: %w", i, err)
		}
		requests[i] = modexp.Request{Base: base, Exponent: exponent}
	}
	return requests, modulus, nil
}

func encodeResult(r modexp.Result) WireResult {
	return WireResult{
		Base:     encodeInt(r.Base),
		Exponent: encodeInt(r.Exponent),
		Modulus:  encodeInt(r.Modulus),
		Value:    encodeInt(r.Value),
	}
}

func (w WireResult) decode() (modexp.Result, error) {
	var (
		r   modexp.Result
		err error
	)
	if r.Base, err = decodeInt(w.Base); err != nil {
		return r, err
	}
	if r.Exponent, err = decodeInt(w.Exponent); err != nil {
		return r, err
	}
	if r.Modulus, err = decodeInt(w.Modulus); err != nil {
		return r, err
	}
	if r.Value, err = decodeInt(w.Value); err != nil {
		return r, err
	}
	return r, nil
}
