package service

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c360/jointstream/component"
	"github.com/c360/jointstream/errors"
)

// managementServer exposes health, status, and Prometheus metrics over HTTP.
type managementServer struct {
	lis net.Listener
	srv *http.Server
}

// componentStatus is the /status entry for one wrapper
type componentStatus struct {
	Meta     component.Metadata     `json:"meta"`
	Health   component.HealthStatus `json:"health"`
	DataFlow component.FlowMetrics  `json:"data_flow"`
}

func newManagementServer(addr string, m *Manager) (*managementServer, error) {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		status := m.Health()
		code := http.StatusOK
		if !status.Healthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, status)
	})

	mux.HandleFunc("GET /status", func(w http.ResponseWriter, _ *http.Request) {
		comps := m.components()
		out := make([]componentStatus, 0, len(comps))
		for _, c := range comps {
			out = append(out, componentStatus{
				Meta:     c.Meta(),
				Health:   c.Health(),
				DataFlow: c.DataFlow(),
			})
		}
		writeJSON(w, http.StatusOK, out)
	})

	mux.Handle("GET /metrics", promhttp.HandlerFor(
		m.Metrics().PrometheusRegistry(),
		promhttp.HandlerOpts{},
	))

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "service", "newManagementServer", "listen")
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		// ErrServerClosed is the normal shutdown path
		_ = srv.Serve(lis)
	}()

	return &managementServer{lis: lis, srv: srv}, nil
}

// Addr returns the bound listen address
func (s *managementServer) Addr() string {
	return s.lis.Addr().String()
}

// Close drains and shuts down the server
func (s *managementServer) Close(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
