package atlas

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what happened during one run. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry   *prometheus.Registry
	samples    prometheus.Counter
	skipped    *prometheus.CounterVec
	iterations prometheus.Histogram
	lookups    *prometheus.CounterVec
	frames     prometheus.Gauge
}

// NewMetrics returns metrics registered on their own registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atlas_samples_total",
			Help: "Total number of trajectory samples computed.",
		}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atlas_samples_skipped_total",
			Help: "Total number of trajectory samples skipped.",
		}, []string{"reason"}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "atlas_kepler_iterations",
			Help:    "Newton-Raphson iterations spent per sample.",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atlas_ephemeris_lookups_total",
			Help: "Total number of ephemeris lookups by body and quality.",
		}, []string{"body", "quality"}),
		frames: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "atlas_frames_rendered",
			Help: "Number of frames rendered by the last run.",
		}),
	}
	m.registry.MustRegister(m.samples, m.skipped, m.iterations, m.lookups, m.frames)
	return m
}

// Registry returns the registry holding every metric.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// SampleComputed records a successful sample.
func (m *Metrics) SampleComputed(s Sample) {
	if m == nil {
		return
	}
	m.samples.Inc()
	m.iterations.Observe(float64(s.Anomaly.Iterations))
}

// SampleSkipped records a sample which could not be computed.
func (m *Metrics) SampleSkipped(err error) {
	if m == nil {
		return
	}
	m.skipped.WithLabelValues(skipReason(err)).Inc()
}

// EphemerisLookup records a lookup.
func (m *Metrics) EphemerisLookup(r EphemerisResult) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(r.Body.Name, r.Quality.String()).Inc()
}

// FramesRendered sets the number of frames of the run.
func (m *Metrics) FramesRendered(n int) {
	if m == nil {
		return
	}
	m.frames.Set(float64(n))
}

// WriteToTextfile writes the metrics in the text exposition format, for a textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil {
		return errors.New("no metrics to write")
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrKeplerDivergence):
		return "divergence"
	case errors.Is(err, ErrDomain):
		return "domain"
	case errors.Is(err, ErrInvalidOrbitalElements):
		return "elements"
	default:
		return "other"
	}
}
