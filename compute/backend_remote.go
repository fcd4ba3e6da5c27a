// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"github.com/gorilla/rpc/v2/json2"
	"github.com/klauspost/compress/gzhttp"

	"github.com/luxfi/mpbridge/modexp"
)

const (
	methodCompute         = "compute.Compute"
	methodComputeVerified = "compute.ComputeVerified"
)

var (
	_ Service = (*RemoteService)(nil)

	ErrRemote = errors.New("remote compute failed")
)

func init() {
	Register(BackendRemote, -1, func(config Config) (Service, error) {
		return NewRemoteService(config)
	})
}

// RemoteService sends each batch to a compute server over JSON-RPC 2.0.
type RemoteService struct {
	endpoint  string
	transport *http.Transport
	client    *http.Client
}

func NewRemoteService(config Config) (*RemoteService, error) {
	if config.Endpoint == "" {
		return nil, ErrNoEndpoint
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &RemoteService{
		endpoint:  config.Endpoint,
		transport: transport,
		client: &http.Client{
			Transport: gzhttp.Transport(transport),
			Timeout:   config.Timeout,
		},
	}, nil
}

func (*RemoteService) Name() string {
	return BackendRemote
}

func (r *RemoteService) Compute(ctx context.Context, requests []modexp.Request, modulus *big.Int) ([]*big.Int, error) {
	if err := validateBatch(requests, modulus); err != nil {
		return nil, err
	}

	var reply ComputeReply
	if err := r.call(ctx, methodCompute, encodeArgs(requests, modulus), &reply); err != nil {
		return nil, err
	}
	if len(reply.Results) != len(requests) {
		return nil, fmt.Errorf("%w: got %d results for %d requests", ErrRemote, len(reply.Results), len(requests))
	}

	results := make([]*big.Int, len(reply.Results))
	for i, s := range reply.Results {
		v, err := decodeInt(s)
		if err != nil {
			return nil, fmt.Errorf("%w: result %d: %w", ErrRemote, i, err)
		}
		results[i] = v
	}
	return results, nil
}

func (r *RemoteService) ComputeVerified(ctx context.Context, requests []modexp.Request, modulus *big.Int) ([]modexp.Result, error) {
	if err := validateBatch(requests, modulus); err != nil {
		return nil, err
	}

	var reply ComputeVerifiedReply
	if err := r.call(ctx, methodComputeVerified, encodeArgs(requests, modulus), &reply); err != nil {
		return nil, err
	}
	if len(reply.Results) != len(requests) {
		return nil, fmt.Errorf("%w: got %d results for %d requests", ErrRemote, len(reply.Results), len(requests))
	}

	results := make([]modexp.Result, len(reply.Results))
	for i, w := range reply.Results {
		res, err := w.decode()
		if err != nil {
			return nil, fmt.Errorf("%w: result %d: %w", ErrRemote, i, err)
		}
		results[i] = res
	}
	return results, nil
}

func (r *RemoteService) Close() error {
	r.transport.CloseIdleConnections()
	return nil
}

func (r *RemoteService) call(ctx context.Context, method string, args, reply any) error {
	body, err := json2.EncodeClientRequest(method, args)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", ErrRemote, resp.Status)
	}
	if err := json2.DecodeClientResponse(resp.Body, reply); err != nil {
		return fmt.Errorf("%w: %w", ErrRemote, err)
	}
	return nil
}
