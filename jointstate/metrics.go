package jointstate

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/jointstream/metric"
)

// wrapperMetrics holds the per-instance collectors registered under the
// wrapper's name. All methods are nil-receiver safe so wrappers run without
// a metrics registry in tests.
type wrapperMetrics struct {
	registry *metric.MetricsRegistry
	name     string

	messagesPublished prometheus.Counter
	bytesPublished    prometheus.Counter
	publishLatency    prometheus.Histogram
	lastStamp         prometheus.Gauge
}

func newWrapperMetrics(registry *metric.MetricsRegistry, name string) (*wrapperMetrics, error) {
	if registry == nil {
		return nil, nil
	}

	m := &wrapperMetrics{
		registry: registry,
		name:     name,
		messagesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "jointstream",
			Subsystem:   "wrapper",
			Name:        "messages_published_total",
			Help:        "Joint-state messages published by this wrapper",
			ConstLabels: prometheus.Labels{"wrapper": name},
		}),
		bytesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "jointstream",
			Subsystem:   "wrapper",
			Name:        "bytes_published_total",
			Help:        "Encoded message bytes published by this wrapper",
			ConstLabels: prometheus.Labels{"wrapper": name},
		}),
		publishLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "jointstream",
			Subsystem:   "wrapper",
			Name:        "publish_latency_seconds",
			Help:        "Time spent in Publish per sample",
			Buckets:     []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
			ConstLabels: prometheus.Labels{"wrapper": name},
		}),
		lastStamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "jointstream",
			Subsystem:   "wrapper",
			Name:        "last_stamp_seconds",
			Help:        "Representative stamp of the last published sample (Unix seconds)",
			ConstLabels: prometheus.Labels{"wrapper": name},
		}),
	}

	if err := registry.RegisterCounter(name, "messages_published_total", m.messagesPublished); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(name, "bytes_published_total", m.bytesPublished); err != nil {
		m.unregister()
		return nil, err
	}
	if err := registry.RegisterHistogram(name, "publish_latency_seconds", m.publishLatency); err != nil {
		m.unregister()
		return nil, err
	}
	if err := registry.RegisterGauge(name, "last_stamp_seconds", m.lastStamp); err != nil {
		m.unregister()
		return nil, err
	}
	return m, nil
}

func (m *wrapperMetrics) recordPublish(bytes int, latencySeconds, stampSeconds float64) {
	if m == nil {
		return
	}
	m.messagesPublished.Inc()
	m.bytesPublished.Add(float64(bytes))
	m.publishLatency.Observe(latencySeconds)
	m.lastStamp.Set(stampSeconds)
}

func (m *wrapperMetrics) unregister() {
	if m == nil {
		return
	}
	m.registry.Unregister(m.name, "messages_published_total")
	m.registry.Unregister(m.name, "bytes_published_total")
	m.registry.Unregister(m.name, "publish_latency_seconds")
	m.registry.Unregister(m.name, "last_stamp_seconds")
}
