package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/gnana997/uitokens/pkg/generator"
	"github.com/gnana997/uitokens/pkg/metrics"
)

// startMetrics serves /metrics on addr in the background. With an empty addr
// it returns nil metrics and a no-op shutdown.
func (a *app) startMetrics(addr string) (*metrics.Metrics, func()) {
	if addr == "" {
		return nil, func() {}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)

	srv := &http.Server{Addr: addr, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := metrics.ListenAndServe(srv, registry); err != nil {
			a.logger.Error("Metrics server failed", "addr", addr, "error", err)
		}
	}()
	a.logger.Info("Metrics server started", "addr", addr)

	return m, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			a.logger.Warn("Metrics server shutdown", "error", err)
		}
	}
}

// observe returns the engine option recording runs in m, if any.
func observe(m *metrics.Metrics) []generator.Option {
	if m == nil {
		return nil
	}
	return []generator.Option{generator.WithObserver(m)}
}
