// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	SignCounter   *prometheus.Counter
	VerifyCounter *prometheus.Counter
)

func registerCounters() {
	SignCounter = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: "opengroup",
		Subsystem: "signer",
		Name:      "signatures_total",
		Help:      "signing attempts by outcome",
	}, []string{"outcome"})

	VerifyCounter = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: "opengroup",
		Subsystem: "signer",
		Name:      "verifications_total",
		Help:      "verified messages by outcome",
	}, []string{"outcome"})
}

type metricsServer struct {
	srv *http.Server
}

func (ms metricsServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return ms.srv.Shutdown(ctx)
}

// startDebug serves the prometheus metrics on addr and returns the counters for the signer.
// Without an address the counters discard everything.
func startDebug(addr string, log kitlog.Logger, closer *multiCloser) (metrics.Counter, metrics.Counter, error) {
	if addr == "" {
		return discard.NewCounter(), discard.NewCounter(), nil
	}

	registerOnce.Do(registerCounters)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics: failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		level.Info(log).Log("starting", "metrics", "addr", lis.Addr().String())
		err := srv.Serve(lis)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			level.Warn(log).Log("event", "metrics server stopped", "err", err)
		}
	}()
	closer.addCloser(metricsServer{srv})

	return SignCounter, VerifyCounter, nil
}
