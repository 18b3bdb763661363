// =============================================================================
// metrics.go - Prometheus Endpoint
// =============================================================================
//
// With --metrics <addr> the shell serves the engine counters plus Go runtime
// and process metrics on http://<addr>/metrics, and a liveness check on
// /health. Without the flag no listener is opened.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/chess3d/uciengine/uciprotocol"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsShutdownTimeout = 2 * time.Second

// metricsServer exposes a registry over HTTP.
type metricsServer struct {
	server *http.Server
	addr   string
}

// newMetricsRegistry creates a registry holding the runtime collectors and
// the engine metrics.
func newMetricsRegistry() (*prometheus.Registry, *uciprotocol.Metrics, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := uciprotocol.NewMetrics(reg)
	if err != nil {
		return nil, nil, err
	}
	return reg, m, nil
}

func newMetricsHandler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

// startMetricsServer listens on addr before returning, so a bad address is
// reported at startup rather than from the background goroutine.
func startMetricsServer(addr string, reg *prometheus.Registry, logger *slog.Logger) (*metricsServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Handler:           newMetricsHandler(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()

	logger.Info("serving metrics", "addr", ln.Addr().String())
	return &metricsServer{server: srv, addr: ln.Addr().String()}, nil
}

// close shuts the server down, waiting briefly for in-flight scrapes.
func (m *metricsServer) close() {
	if m == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()
	_ = m.server.Shutdown(ctx)
}
