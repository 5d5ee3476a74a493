package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all platform-level metrics (not instance-specific)
type Metrics struct {
	// Wrapper metrics
	WrapperState    *prometheus.GaugeVec
	SampleCycles    *prometheus.CounterVec
	SamplesDropped  *prometheus.CounterVec
	ReadErrors      *prometheus.CounterVec
	CycleDuration   *prometheus.HistogramVec
	JointsBound     *prometheus.GaugeVec
	HealthStatus    *prometheus.GaugeVec

	// NATS metrics
	NATSConnected  prometheus.Gauge
	NATSRTT        prometheus.Gauge
	NATSReconnects prometheus.Counter
	NATSCircuit    prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all platform metrics
func NewMetrics() *Metrics {
	return &Metrics{
		WrapperState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "jointstream",
				Subsystem: "wrapper",
				Name:      "state",
				Help:      "Wrapper lifecycle state (0=closed, 1=configured, 2=bound, 3=running)",
			},
			[]string{"wrapper"},
		),

		SampleCycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jointstream",
				Subsystem: "sampling",
				Name:      "cycles_total",
				Help:      "Total number of sampling cycles executed",
			},
			[]string{"wrapper"},
		),

		SamplesDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jointstream",
				Subsystem: "sampling",
				Name:      "dropped_total",
				Help:      "Samples dropped because the publish failed",
			},
			[]string{"wrapper"},
		),

		ReadErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jointstream",
				Subsystem: "sampling",
				Name:      "read_errors_total",
				Help:      "Capability read failures during sampling",
			},
			[]string{"wrapper", "capability"},
		),

		CycleDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "jointstream",
				Subsystem: "sampling",
				Name:      "cycle_duration_seconds",
				Help:      "Sampling cycle duration in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.02, 0.05, 0.1},
			},
			[]string{"wrapper"},
		),

		JointsBound: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "jointstream",
				Subsystem: "wrapper",
				Name:      "joints_bound",
				Help:      "Number of joints on the currently bound device",
			},
			[]string{"wrapper"},
		),

		HealthStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "jointstream",
				Subsystem: "health",
				Name:      "status",
				Help:      "Health check status (0=unhealthy, 1=healthy)",
			},
			[]string{"wrapper"},
		),

		// NATS metrics
		NATSConnected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "jointstream",
				Subsystem: "nats",
				Name:      "connected",
				Help:      "NATS connection status (0=disconnected, 1=connected)",
			},
		),

		NATSRTT: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "jointstream",
				Subsystem: "nats",
				Name:      "rtt_milliseconds",
				Help:      "NATS round-trip time in milliseconds",
			},
		),

		NATSReconnects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "jointstream",
				Subsystem: "nats",
				Name:      "reconnects_total",
				Help:      "Total number of NATS reconnections",
			},
		),

		NATSCircuit: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "jointstream",
				Subsystem: "nats",
				Name:      "circuit_breaker",
				Help:      "NATS circuit breaker status (0=closed, 1=open)",
			},
		),
	}
}

// RecordWrapperState updates the lifecycle state metric
func (c *Metrics) RecordWrapperState(wrapper string, state int) {
	c.WrapperState.WithLabelValues(wrapper).Set(float64(state))
}

// RecordSampleCycle increments the cycle counter
func (c *Metrics) RecordSampleCycle(wrapper string) {
	c.SampleCycles.WithLabelValues(wrapper).Inc()
}

// RecordSampleDropped increments the dropped-sample counter
func (c *Metrics) RecordSampleDropped(wrapper string) {
	c.SamplesDropped.WithLabelValues(wrapper).Inc()
}

// RecordReadError increments the read-error counter for a capability
func (c *Metrics) RecordReadError(wrapper, capability string) {
	c.ReadErrors.WithLabelValues(wrapper, capability).Inc()
}

// RecordCycleDuration records one sampling cycle's duration
func (c *Metrics) RecordCycleDuration(wrapper string, duration time.Duration) {
	c.CycleDuration.WithLabelValues(wrapper).Observe(duration.Seconds())
}

// RecordJointsBound updates the bound joint count
func (c *Metrics) RecordJointsBound(wrapper string, joints int) {
	c.JointsBound.WithLabelValues(wrapper).Set(float64(joints))
}

// RecordHealthStatus updates health check status
func (c *Metrics) RecordHealthStatus(wrapper string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	c.HealthStatus.WithLabelValues(wrapper).Set(value)
}

// RecordNATSStatus updates NATS connection status
func (c *Metrics) RecordNATSStatus(connected bool) {
	value := 0.0
	if connected {
		value = 1.0
	}
	c.NATSConnected.Set(value)
}

// RecordNATSRTT updates NATS round-trip time
func (c *Metrics) RecordNATSRTT(rtt time.Duration) {
	c.NATSRTT.Set(float64(rtt.Milliseconds()))
}

// RecordNATSReconnect increments reconnection counter
func (c *Metrics) RecordNATSReconnect() {
	c.NATSReconnects.Inc()
}

// RecordCircuitBreakerState updates circuit breaker status
func (c *Metrics) RecordCircuitBreakerState(state int) {
	c.NATSCircuit.Set(float64(state))
}
