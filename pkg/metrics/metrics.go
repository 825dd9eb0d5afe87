package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the collector.
type Config struct {
	// Namespace is the metrics namespace (default: "kite").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render and await durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// defaultConfig returns the default metrics configuration.
func defaultConfig() Config {
	return Config{
		Namespace: "kite",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector holds the runtime metrics.
type Collector struct {
	instancesActive     prometheus.Gauge
	instancesTotal      *prometheus.CounterVec
	rendersTotal        *prometheus.CounterVec
	renderDuration      prometheus.Histogram
	replacementsTotal   *prometheus.CounterVec
	subscriptionsActive prometheus.Gauge
	eventsDelivered     prometheus.Counter
	eventsDiscarded     prometheus.Counter
	awaitDuration       prometheus.Histogram
}

// New registers the runtime metrics and returns their collector.
// Registering twice on the same registry panics, as promauto does.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		instancesActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "instances_active",
			Help:        "Number of mounted component instances",
			ConstLabels: config.ConstLabels,
		}),

		instancesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "instances_total",
			Help:        "Total number of finished component instances",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "state"}),

		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of Render calls",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		replacementsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "replacements_total",
			Help:        "Total number of ReplaceChild calls",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		subscriptionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "subscriptions_active",
			Help:        "Number of native listeners registered by event streams",
			ConstLabels: config.ConstLabels,
		}),

		eventsDelivered: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_delivered_total",
			Help:        "Total number of events handed to stream consumers",
			ConstLabels: config.ConstLabels,
		}),

		eventsDiscarded: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_discarded_total",
			Help:        "Total number of queued events dropped when a stream closed",
			ConstLabels: config.ConstLabels,
		}),

		awaitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "await_duration_seconds",
			Help:        "Time component instances spent suspended in awaits",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// RecordMount records a mounted instance.
func (c *Collector) RecordMount() {
	if c != nil {
		c.instancesActive.Inc()
	}
}

// RecordUnmount records an instance leaving the tree.
func (c *Collector) RecordUnmount() {
	if c != nil {
		c.instancesActive.Dec()
	}
}

// RecordFinish records an instance body returning, with its final state.
func (c *Collector) RecordFinish(component, state string) {
	if c != nil {
		c.instancesTotal.WithLabelValues(component, state).Inc()
	}
}

// RecordRender records one Render call.
func (c *Collector) RecordRender(d time.Duration, err error) {
	if c == nil {
		return
	}
	c.renderDuration.Observe(d.Seconds())
	c.rendersTotal.WithLabelValues(status(err)).Inc()
}

// RecordReplace records one ReplaceChild call.
func (c *Collector) RecordReplace(err error) {
	if c != nil {
		c.replacementsTotal.WithLabelValues(status(err)).Inc()
	}
}

// RecordSubscribe records native listeners being registered.
func (c *Collector) RecordSubscribe(n int) {
	if c != nil {
		c.subscriptionsActive.Add(float64(n))
	}
}

// RecordUnsubscribe records native listeners being removed.
func (c *Collector) RecordUnsubscribe(n int) {
	if c != nil {
		c.subscriptionsActive.Sub(float64(n))
	}
}

// RecordDelivered records an event handed to a consumer.
func (c *Collector) RecordDelivered() {
	if c != nil {
		c.eventsDelivered.Inc()
	}
}

// RecordDiscarded records queued events dropped before delivery.
func (c *Collector) RecordDiscarded(n int) {
	if c != nil && n > 0 {
		c.eventsDiscarded.Add(float64(n))
	}
}

// RecordAwait records time spent suspended.
func (c *Collector) RecordAwait(d time.Duration) {
	if c != nil {
		c.awaitDuration.Observe(d.Seconds())
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
