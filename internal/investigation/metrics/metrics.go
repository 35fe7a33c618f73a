package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the investigation module.
// Tracks record lifecycle counts, difference churn, and persistence health.
type Metrics struct {
	InvestigationsCreated   prometheus.Counter
	InvestigationsCompleted prometheus.Counter
	DifferencesDetected     prometheus.Counter
	DifferencesCleared      prometheus.Counter
	PhotosCaptured          prometheus.Counter
	AutosaveWrites          prometheus.Counter
	PersistenceFailures     prometheus.Counter
	ValidateDuration        prometheus.Histogram
}

// New creates a Metrics instance with all investigation module metrics registered.
func New() *Metrics {
	return &Metrics{
		InvestigationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invc_investigations_created_total",
			Help: "Total number of investigations opened",
		}),
		InvestigationsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invc_investigations_completed_total",
			Help: "Total number of investigations finished",
		}),
		DifferencesDetected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invc_differences_detected_total",
			Help: "Total number of declared/observed differences detected",
		}),
		DifferencesCleared: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invc_differences_cleared_total",
			Help: "Total number of differences cleared by re-observation",
		}),
		PhotosCaptured: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invc_photos_captured_total",
			Help: "Total number of evidence photos captured",
		}),
		AutosaveWrites: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invc_autosave_writes_total",
			Help: "Total number of debounced autosave writes",
		}),
		PersistenceFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invc_persistence_failures_total",
			Help: "Total number of swallowed persistence failures",
		}),
		ValidateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "invc_validate_duration_seconds",
			Help:    "Duration of completion gate evaluations",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
	}
}

// ObserveValidate records the duration of a completion gate evaluation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveValidate(start time.Time) {
	m.ValidateDuration.Observe(time.Since(start).Seconds())
}
