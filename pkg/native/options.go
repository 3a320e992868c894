package native

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for engine spans.
const defaultTracerName = "vnative"

type options struct {
	logger         *slog.Logger
	metrics        *Metrics
	tracer         trace.Tracer
	rebuildOnDrift bool
	observers      []Observer
}

// Option configures an Applicator or a Reconciler.
type Option func(*options)

// WithLogger sets the logger. Default: slog.Default() tagged with the
// component name.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics attaches Prometheus collectors. Default: none.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracer sets the tracer. Default: the global provider's "vnative" tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// WithRebuildOnDrift makes the Reconciler rebuild the whole native tree when
// a batch shows the native tree no longer mirrors the virtual one.
// Enabled by default.
func WithRebuildOnDrift(enabled bool) Option {
	return func(o *options) {
		o.rebuildOnDrift = enabled
	}
}

// WithObserver registers a function called after every reconciler update.
func WithObserver(fn Observer) Option {
	return func(o *options) {
		if fn != nil {
			o.observers = append(o.observers, fn)
		}
	}
}

func newOptions(component string, opts []Option) options {
	o := options{rebuildOnDrift: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	o.logger = o.logger.With("component", component)
	if o.tracer == nil {
		o.tracer = otel.Tracer(defaultTracerName)
	}
	return o
}
