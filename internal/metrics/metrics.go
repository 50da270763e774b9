// Package metrics exposes the dashboard's own activity to Prometheus. All
// methods are safe on a nil *Metrics, which is what callers get when the
// metrics listener is disabled.
package metrics

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rileyhilliard/nodehealth/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Metrics wraps the Prometheus collectors for nodehealth.
type Metrics struct {
	registry             *prometheus.Registry
	cycleDurationSeconds prometheus.Histogram
	checkStatus          *prometheus.GaugeVec
	diagnosticErrors     *prometheus.CounterVec
	statValue            *prometheus.GaugeVec
	sampleErrors         prometheus.Counter
}

// New initializes a registry with all collectors registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		cycleDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nodehealth_check_cycle_duration_seconds",
			Help:    "Duration of health check chain runs in seconds.",
			Buckets: []float64{1, 5, 7.5, 10, 15, 20, 30, 60, 120},
		}),
		checkStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "nodehealth_check_status",
			Help: "Latest status per check (0 good, 1 warning, 2 error).",
		}, []string{"check"}),
		diagnosticErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nodehealth_diagnostic_errors_total",
			Help: "Diagnostic or parse failures by check.",
		}, []string{"check"}),
		statValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "nodehealth_statistic_value",
			Help: "Latest emitted value per statistic.",
		}, []string{"statistic"}),
		sampleErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nodehealth_sample_errors_total",
			Help: "Statistic emissions that failed.",
		}),
	}

	registry.MustRegister(
		m.cycleDurationSeconds,
		m.checkStatus,
		m.diagnosticErrors,
		m.statValue,
		m.sampleErrors,
	)

	return m
}

// Handler returns a Prometheus HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCycleDuration records how long one chain run took.
func (m *Metrics) ObserveCycleDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.cycleDurationSeconds.Observe(d.Seconds())
}

// SetCheckStatus records the status level of a named check.
func (m *Metrics) SetCheckStatus(check string, level int) {
	if m == nil {
		return
	}
	m.checkStatus.WithLabelValues(check).Set(float64(level))
}

// IncDiagnosticErrors counts a failed diagnostic for check.
func (m *Metrics) IncDiagnosticErrors(check string) {
	if m == nil {
		return
	}
	m.diagnosticErrors.WithLabelValues(check).Inc()
}

// SetStatValue records the latest value of a statistic.
func (m *Metrics) SetStatValue(name string, value float64) {
	if m == nil {
		return
	}
	m.statValue.WithLabelValues(name).Set(value)
}

// IncSampleErrors counts a failed statistic emission.
func (m *Metrics) IncSampleErrors() {
	if m == nil {
		return
	}
	m.sampleErrors.Inc()
}

// Serve exposes /metrics on addr until ctx is cancelled. An empty addr
// disables the listener.
func Serve(ctx context.Context, log logger.Logger, m *Metrics, addr string) {
	if addr == "" || m == nil {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("metrics server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("metrics server shutdown failed: %v", err)
		}
	}()
}
