package service

import (
	"log/slog"
	"time"

	invcmetrics "github.com/edd1080/project-olympo-sub002/internal/investigation/metrics"
)

type serviceConfig struct {
	logger             *slog.Logger
	metrics            *invcmetrics.Metrics
	publisher          CompletedPublisher
	debounce           time.Duration
	photoTolerance     float64
	thresholdPercent   float64
	listOverlapPercent float64
}

// Option configures optional service dependencies.
type Option func(*serviceConfig)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) { cfg.logger = logger }
}

// WithMetrics wires Prometheus metrics. Nil-safe: a nil Metrics disables them.
func WithMetrics(m *invcmetrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

// WithPublisher wires the completed-investigation hand-off.
func WithPublisher(p CompletedPublisher) Option {
	return func(cfg *serviceConfig) { cfg.publisher = p }
}

// WithDebounce overrides the autosave coalescing window (default 500ms).
func WithDebounce(d time.Duration) Option {
	return func(cfg *serviceConfig) {
		if d > 0 {
			cfg.debounce = d
		}
	}
}

// WithPhotoTolerance overrides the per-photo geotag tolerance in meters
// (default 10).
func WithPhotoTolerance(meters float64) Option {
	return func(cfg *serviceConfig) {
		if meters > 0 {
			cfg.photoTolerance = meters
		}
	}
}

// WithNumericThreshold overrides the numeric difference threshold percent.
func WithNumericThreshold(percent float64) Option {
	return func(cfg *serviceConfig) {
		if percent > 0 {
			cfg.thresholdPercent = percent
		}
	}
}

// WithListOverlap overrides the minimum product-list overlap percent.
func WithListOverlap(percent float64) Option {
	return func(cfg *serviceConfig) {
		if percent > 0 {
			cfg.listOverlapPercent = percent
		}
	}
}
