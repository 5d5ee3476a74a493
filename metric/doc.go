// Package metric provides Prometheus metrics registration and core platform
// metrics for jointstream.
//
// The MetricsRegistry owns a private prometheus.Registry so tests and embedded
// deployments never collide with the global default registry. Core platform
// metrics (wrapper lifecycle state, sampling cycle counters, NATS connection
// health) are registered at construction; wrapper instances register their own
// collectors through the MetricsRegistrar interface, namespaced by instance
// name so two wrappers on different topics never conflict.
package metric
