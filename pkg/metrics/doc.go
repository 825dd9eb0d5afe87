// Package metrics collects Prometheus metrics for the kite runtime.
//
// A Collector is handed to kite.NewHost via kite.WithMetrics. All recording
// methods are safe on a nil *Collector, so the runtime records
// unconditionally and a host without metrics pays nothing.
//
// Metrics collected (namespace "kite" by default):
//   - kite_instances_active: Gauge of mounted component instances
//   - kite_instances_total: Counter of finished instances by component and state
//   - kite_renders_total: Counter of Render calls by result
//   - kite_render_duration_seconds: Histogram of Render duration
//   - kite_replacements_total: Counter of ReplaceChild calls by result
//   - kite_subscriptions_active: Gauge of registered native listeners
//   - kite_events_delivered_total: Counter of events handed to consumers
//   - kite_events_discarded_total: Counter of queued events dropped undelivered
//   - kite_await_duration_seconds: Histogram of suspension time in awaits
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	host := kite.NewHost(kite.WithMetrics(metrics.New(metrics.WithRegistry(reg))))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package metrics
