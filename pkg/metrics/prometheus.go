package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus. It owns
// its registry so a run-once invocation can dump a clean textfile and serve
// mode can expose the same collectors over /metrics.
type Recorder struct {
	registry        *prometheus.Registry
	fetchesTotal    *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	compositeScore  *prometheus.GaugeVec
	signalTriggered *prometheus.GaugeVec
	latency         *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder with its own registry.
func New() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		fetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barometer_fetches_total",
				Help: "Symbol history fetches by outcome",
			},
			[]string{"symbol", "outcome"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barometer_errors_total",
				Help: "Errors encountered during a run",
			},
			[]string{"type"},
		),
		compositeScore: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "barometer_composite_score",
				Help: "Latest composite crash-risk score per asset",
			},
			[]string{"asset"},
		),
		signalTriggered: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "barometer_signal_triggered",
				Help: "1 when the named signal is currently triggered",
			},
			[]string{"asset", "signal"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "barometer_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// Registry exposes the underlying registry for /metrics handlers.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// WriteTextfile dumps all collectors to a node-exporter textfile.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// RecordFetch records one symbol fetch attempt.
func (r *Recorder) RecordFetch(symbol, outcome string) {
	r.fetchesTotal.WithLabelValues(symbol, outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordScore records the composite score for an asset.
func (r *Recorder) RecordScore(asset string, score int) {
	r.compositeScore.WithLabelValues(asset).Set(float64(score))
}

// RecordSignal records a signal's triggered state.
func (r *Recorder) RecordSignal(asset, signal string, triggered bool) {
	v := 0.0
	if triggered {
		v = 1.0
	}
	r.signalTriggered.WithLabelValues(asset, signal).Set(v)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
