// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"net/http"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
	"github.com/klauspost/compress/gzhttp"
	"github.com/luxfi/log"
)

// Server exposes a Service as the "compute" JSON-RPC service.
type Server struct {
	svc Service
	log log.Logger
}

// NewHandler returns a JSON-RPC 2.0 handler that serves svc. Responses are
// gzip compressed when the client accepts it.
func NewHandler(svc Service, logger log.Logger) (http.Handler, error) {
	server := rpc.NewServer()
	server.RegisterCodec(json2.NewCodec(), "application/json")
	server.RegisterCodec(json2.NewCodec(), "application/json;charset=UTF-8")
	if err := server.RegisterService(&Server{svc: svc, log: logger}, "compute"); err != nil {
		return nil, err
	}
	return gzhttp.GzipHandler(server), nil
}

func (s *Server) Compute(r *http.Request, args *ComputeArgs, reply *ComputeReply) error {
	requests, modulus, err := args.decode()
	if err != nil {
		return err
	}
	s.log.Debug("compute batch",
		log.String("backend", s.svc.Name()),
		log.Int("requests", len(requests)),
	)

	values, err := s.svc.Compute(r.Context(), requests, modulus)
	if err != nil {
		s.log.Warn("compute batch failed", log.Err(err))
		return err
	}
	reply.Results = make([]string, len(values))
	for i, v := range values {
		reply.Results[i] = encodeInt(v)
	}
	return nil
}

func (s *Server) ComputeVerified(r *http.Request, args *ComputeArgs, reply *ComputeVerifiedReply) error {
	requests, modulus, err := args.decode()
	if err != nil {
		return err
	}
	s.log.Debug("compute verified batch",
		log.String("backend", s.svc.Name()),
		log.Int("requests", len(requests)),
	)

	results, err := s.svc.ComputeVerified(r.Context(), requests, modulus)
	if err != nil {
		s.log.Warn("compute verified batch failed", log.Err(err))
		return err
	}
	reply.Results = make([]WireResult, len(results))
	for i, res := range results {
		reply.Results[i] = encodeResult(res)
	}
	return nil
}
