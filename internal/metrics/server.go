package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Server serves the metrics registry over HTTP.
type Server struct {
	server   *http.Server
	registry *prometheus.Registry
	port     int
	endpoint string
}

// NewServer creates a metrics server with the Go runtime, process and
// application collectors registered.
func NewServer(port int, endpoint string) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	registry.MustRegister(Collectors()...)

	mux := http.NewServeMux()
	mux.Handle(endpoint, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &Server{
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
		registry: registry,
		port:     port,
		endpoint: endpoint,
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Server) Handler() http.Handler {
	return m.server.Handler
}

// Start begins serving in the background.
func (m *Server) Start() {
	go func() {
		logrus.Infof("metrics server listening on port %d%s", m.port, m.endpoint)
		if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("metrics server failed: %v", err)
		}
	}()
}

// Shutdown gracefully stops the metrics server.
func (m *Server) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down metrics server...")
	return m.server.Shutdown(ctx)
}
