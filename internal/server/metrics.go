// Package server exposes the Bessel evaluators over an HTTP JSON API.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes server-level Prometheus metrics. Evaluation counts and
// latencies are recorded by the bessel package itself.
type Metrics struct {
	handler http.Handler
}

var (
	activeRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "besselj_active_requests",
		Help: "Current number of active requests",
	})
	totalRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "besselj_requests_total",
		Help: "Total number of requests received, by endpoint",
	}, []string{"endpoint"})
	notModifiedResponses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "besselj_not_modified_total",
		Help: "Responses answered with 304 Not Modified from a matching ETag",
	})
)

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{handler: promhttp.Handler()}
}

// IncrementActiveRequests records the start of a request on endpoint.
func (m *Metrics) IncrementActiveRequests(endpoint string) {
	activeRequests.Inc()
	totalRequests.WithLabelValues(endpoint).Inc()
}

// DecrementActiveRequests records the end of a request.
func (m *Metrics) DecrementActiveRequests() {
	activeRequests.Dec()
}

// WritePrometheus writes metrics in Prometheus text format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// metricsMiddleware tracks active requests.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests(r.URL.Path)
		defer s.metrics.DecrementActiveRequests()
		next(w, r)
	}
}
