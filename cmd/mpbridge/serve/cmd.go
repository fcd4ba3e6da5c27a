// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serve

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/luxfi/mpbridge/compute"
	"github.com/luxfi/mpbridge/config"
)

const (
	rpcEndpoint     = "/rpc"
	metricsEndpoint = "/metrics"
)

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serves the configured compute backend over JSON-RPC",
		RunE:  serveFunc,
	}
	flags := c.Flags()
	AddFlags(flags)
	return c
}

func serveFunc(c *cobra.Command, args []string) error {
	flags, err := ParseFlags(c.Flags(), args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}

	logger := log.NewLogger("mpbridge")
	computeConfig := cfg.ComputeConfig()
	if computeConfig.Backend == compute.BackendRemote {
		// The server computes locally, never by forwarding.
		computeConfig.Backend = ""
	}
	svc, err := compute.NewService(computeConfig)
	if err != nil {
		return err
	}
	defer svc.Close()

	registry := prometheus.NewRegistry()
	handler, err := NewHandler(svc, logger, registry, flags.AllowedOrigins)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", flags.Listen)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("serving compute API",
		log.String("address", listener.Addr().String()),
		log.String("backend", svc.Name()),
	)

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Serve(listener)
	}()

	select {
	case err := <-errs:
		return err
	case <-c.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), flags.ShutdownTimeout)
	defer cancel()
	err = srv.Shutdown(ctx)
	if serveErr := <-errs; !errors.Is(serveErr, http.ErrServerClosed) {
		return serveErr
	}
	logger.Info("compute API stopped")
	return err
}

// NewHandler routes the JSON-RPC compute API and the metrics endpoint.
func NewHandler(svc compute.Service, logger log.Logger, registry *prometheus.Registry, allowedOrigins []string) (http.Handler, error) {
	rpcHandler, err := compute.NewHandler(svc, logger)
	if err != nil {
		return nil, err
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rpc_requests",
		Help: "Number of compute API requests by status code",
	}, []string{"code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "rpc_request_duration_seconds",
		Help: "Time spent serving compute API requests",
	}, []string{"code"})
	for _, c := range []prometheus.Collector{
		requests,
		duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	router := mux.NewRouter()
	router.Handle(rpcEndpoint, promhttp.InstrumentHandlerDuration(duration,
		promhttp.InstrumentHandlerCounter(requests, rpcHandler),
	)).Methods(http.MethodPost)
	router.Handle(metricsEndpoint, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
	}).Handler(router), nil
}
