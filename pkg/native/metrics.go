package native

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/native/pkg/vdom"
)

// MetricsConfig configures the Prometheus collectors of the engine.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vnative").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for batch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vnative",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the engine's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
//
// Collected:
//   - vnative_patches_applied_total: patches applied, by op
//   - vnative_batches_total: batches applied, by outcome
//   - vnative_batch_duration_seconds: time spent applying one batch
//   - vnative_children_skipped_total: appended children whose build failed
//   - vnative_unsupported_attributes_total: (tag, key) pairs without a setter
//   - vnative_rebuilds_total: full native rebuilds, by reason
type Metrics struct {
	patchesApplied *prometheus.CounterVec
	batches        *prometheus.CounterVec
	batchDuration  prometheus.Histogram
	skipped        prometheus.Counter
	unsupported    *prometheus.CounterVec
	rebuilds       *prometheus.CounterVec
}

// NewMetrics registers the engine collectors with the configured registry.
// Registering twice against the same registry panics, so create one
// Metrics per registry.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		patchesApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_applied_total",
			Help:        "Total number of patches applied to the native tree",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		batches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "batches_total",
			Help:        "Total number of patch batches by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		batchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "batch_duration_seconds",
			Help:        "Patch batch application duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		skipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "children_skipped_total",
			Help:        "Total number of appended children skipped because their build failed",
			ConstLabels: config.ConstLabels,
		}),

		unsupported: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "unsupported_attributes_total",
			Help:        "Total number of attribute patches without a toolkit setter",
			ConstLabels: config.ConstLabels,
		}, []string{"tag", "key"}),

		rebuilds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rebuilds_total",
			Help:        "Total number of full native tree rebuilds",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),
	}
}

func (m *Metrics) observePatch(op vdom.PatchOp) {
	if m != nil {
		m.patchesApplied.WithLabelValues(op.String()).Inc()
	}
}

func (m *Metrics) observeBatch(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.batchDuration.Observe(d.Seconds())
	outcome := "success"
	if err != nil {
		outcome = errorKind(err)
	}
	m.batches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeSkipped() {
	if m != nil {
		m.skipped.Inc()
	}
}

func (m *Metrics) observeUnsupported(tag vdom.Tag, key vdom.AttrKey) {
	if m != nil {
		m.unsupported.WithLabelValues(tag.String(), key.String()).Inc()
	}
}

func (m *Metrics) observeRebuild(reason string) {
	if m != nil {
		m.rebuilds.WithLabelValues(reason).Inc()
	}
}
