package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for FitsTotal
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Operation labels
const (
	OperationFit     = "fit"
	OperationBestFit = "bestfit"
)

// Metrics holds the fitting collectors on their own registry so that
// servers and tests do not share global state.
type Metrics struct {
	Registry *prometheus.Registry

	FitsTotal        *prometheus.CounterVec
	FitDuration      *prometheus.HistogramVec
	SelectedDegree   *prometheus.CounterVec
	SolverIterations prometheus.Histogram
}

// New creates and registers the collectors
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trendfit",
			Name:      "fits_total",
			Help:      "Curve fits by operation and outcome",
		}, []string{"operation", "outcome"}),
		FitDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "trendfit",
			Name:      "fit_duration_seconds",
			Help:      "Curve fit latency in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}, []string{"operation"}),
		SelectedDegree: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trendfit",
			Name:      "selected_degree_total",
			Help:      "Degrees chosen by the degree selector",
		}, []string{"degree"}),
		SolverIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trendfit",
			Name:      "solver_iterations",
			Help:      "Levenberg-Marquardt iterations per fit",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200},
		}),
	}
	m.Registry.MustRegister(m.FitsTotal, m.FitDuration, m.SelectedDegree, m.SolverIterations)
	return m
}

// ObserveFit records one fit call
func (m *Metrics) ObserveFit(operation string, started time.Time, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.FitsTotal.WithLabelValues(operation, outcome).Inc()
	m.FitDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// ObserveDegree records a selected degree
func (m *Metrics) ObserveDegree(degree int) {
	m.SelectedDegree.WithLabelValues(strconv.Itoa(degree)).Inc()
}

// ObserveIterations records solver iterations of a single fit
func (m *Metrics) ObserveIterations(iterations int) {
	m.SolverIterations.Observe(float64(iterations))
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
