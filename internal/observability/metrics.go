package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RunCollector bundles Prometheus metrics for analysis runs and provides a
// ready-made /metrics handler for the optional metrics listener.
type RunCollector struct {
	gatherer prometheus.Gatherer

	RunsTotal      *prometheus.CounterVec
	StageDurations *prometheus.HistogramVec

	RowsProcessed      prometheus.Counter
	ResidualsRejected  prometheus.Counter
	ActiveMeasurements prometheus.Gauge
}

// NewRunCollector registers analysis metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewRunCollector(reg prometheus.Registerer) (*RunCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_runs_total",
		Help: "Total number of analysis pipeline runs, labeled by outcome.",
	}, []string{"status"})
	runs, err := registerCounterVec(reg, runs, "analysis_runs_total")
	if err != nil {
		return nil, err
	}

	stages := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analysis_stage_duration_seconds",
		Help:    "Duration of individual analysis pipeline stages.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"stage"})
	stages, err = registerHistogramVec(reg, stages, "analysis_stage_duration_seconds")
	if err != nil {
		return nil, err
	}

	rows, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analysis_rows_processed_total",
		Help: "Cumulative number of observation rows run through the pipeline.",
	}), "analysis_rows_processed_total")
	if err != nil {
		return nil, err
	}
	rejected, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analysis_residuals_rejected_total",
		Help: "Cumulative number of rows the estimator flagged as rejected.",
	}), "analysis_residuals_rejected_total")
	if err != nil {
		return nil, err
	}
	active, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "analysis_active_measurement_types",
		Help: "Number of measurement types detected in the latest run.",
	}), "analysis_active_measurement_types")
	if err != nil {
		return nil, err
	}

	return &RunCollector{
		gatherer:           gatherer,
		RunsTotal:          runs,
		StageDurations:     stages,
		RowsProcessed:      rows,
		ResidualsRejected:  rejected,
		ActiveMeasurements: active,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *RunCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// Handler exposes a ready-to-use /metrics handler.
func (c *RunCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// IncRun records one completed pipeline run with the given outcome
// ("ok" or "error").
func (c *RunCollector) IncRun(status string) {
	if c == nil || c.RunsTotal == nil {
		return
	}
	c.RunsTotal.WithLabelValues(status).Inc()
}

// ObserveStage records one pipeline stage duration. It satisfies the
// analysis.RunMetricsRecorder interface so the pipeline can drive metrics
// without depending on this package.
func (c *RunCollector) ObserveStage(stage string, d time.Duration) {
	if c == nil || c.StageDurations == nil {
		return
	}
	c.StageDurations.WithLabelValues(stage).Observe(d.Seconds())
}

// SetActiveMeasurementTypes updates the detected-type gauge.
func (c *RunCollector) SetActiveMeasurementTypes(n int) {
	if c == nil || c.ActiveMeasurements == nil {
		return
	}
	c.ActiveMeasurements.Set(float64(n))
}

// AddRowsProcessed adds to the processed-row counter.
func (c *RunCollector) AddRowsProcessed(n int) {
	if c == nil || c.RowsProcessed == nil {
		return
	}
	c.RowsProcessed.Add(float64(n))
}

// AddResidualsRejected adds to the rejected-row counter.
func (c *RunCollector) AddResidualsRejected(n int) {
	if c == nil || c.ResidualsRejected == nil {
		return
	}
	c.ResidualsRejected.Add(float64(n))
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
