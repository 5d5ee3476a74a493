package metric

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/c360/jointstream/errors"
)

// MetricsRegistrar defines the interface for registering instance-specific metrics
type MetricsRegistrar interface {
	RegisterCounter(instanceName, metricName string, counter prometheus.Counter) error
	RegisterGauge(instanceName, metricName string, gauge prometheus.Gauge) error
	RegisterHistogram(instanceName, metricName string, histogram prometheus.Histogram) error
	Unregister(instanceName, metricName string) bool
}

// MetricsRegistry manages the registration and lifecycle of metrics
type MetricsRegistry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
	registeredMetrics  map[string]prometheus.Collector
	mu                 sync.RWMutex
}

// NewMetricsRegistry creates a new metrics registry with core platform metrics
func NewMetricsRegistry() *MetricsRegistry {
	prometheusRegistry := prometheus.NewRegistry()

	registry := &MetricsRegistry{
		prometheusRegistry: prometheusRegistry,
		registeredMetrics:  make(map[string]prometheus.Collector),
	}

	// Initialize and register core metrics
	registry.Metrics = NewMetrics()
	registry.registerMetrics()

	// Add Go runtime metrics
	registry.prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

// PrometheusRegistry returns the underlying Prometheus registry
func (r *MetricsRegistry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// CoreMetrics returns the core platform metrics
func (r *MetricsRegistry) CoreMetrics() *Metrics {
	return r.Metrics
}

// RegisterCounter registers a counter metric for a wrapper instance
func (r *MetricsRegistry) RegisterCounter(instanceName, metricName string, counter prometheus.Counter) error {
	return r.register(instanceName, metricName, "RegisterCounter", counter)
}

// RegisterGauge registers a gauge metric for a wrapper instance
func (r *MetricsRegistry) RegisterGauge(instanceName, metricName string, gauge prometheus.Gauge) error {
	return r.register(instanceName, metricName, "RegisterGauge", gauge)
}

// RegisterHistogram registers a histogram metric for a wrapper instance
func (r *MetricsRegistry) RegisterHistogram(instanceName, metricName string, histogram prometheus.Histogram) error {
	return r.register(instanceName, metricName, "RegisterHistogram", histogram)
}

// register is the shared registration path for all collector kinds
func (r *MetricsRegistry) register(instanceName, metricName, method string, collector prometheus.Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s.%s", instanceName, metricName)

	if _, exists := r.registeredMetrics[key]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("metric %s already registered for instance %s", metricName, instanceName),
			"MetricsRegistry", method, "duplicate metric registration")
	}

	if err := r.prometheusRegistry.Register(collector); err != nil {
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if stderrors.As(err, &alreadyRegErr) {
			return errors.WrapInvalid(err, "MetricsRegistry", method,
				fmt.Sprintf("prometheus conflict for metric %s", metricName))
		}
		return errors.WrapFatal(err, "MetricsRegistry", method,
			"failed to register collector with prometheus")
	}

	r.registeredMetrics[key] = collector
	return nil
}

// Unregister removes a metric from the registry
func (r *MetricsRegistry) Unregister(instanceName, metricName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s.%s", instanceName, metricName)

	collector, exists := r.registeredMetrics[key]
	if !exists {
		return false
	}

	success := r.prometheusRegistry.Unregister(collector)
	if success {
		delete(r.registeredMetrics, key)
	}

	return success
}

// registerMetrics registers all core platform metrics
func (r *MetricsRegistry) registerMetrics() {
	r.prometheusRegistry.MustRegister(
		r.Metrics.WrapperState,
		r.Metrics.SampleCycles,
		r.Metrics.SamplesDropped,
		r.Metrics.ReadErrors,
		r.Metrics.CycleDuration,
		r.Metrics.JointsBound,
		r.Metrics.HealthStatus,
		r.Metrics.NATSConnected,
		r.Metrics.NATSRTT,
		r.Metrics.NATSReconnects,
		r.Metrics.NATSCircuit,
	)
}
