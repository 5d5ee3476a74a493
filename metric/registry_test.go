package metric

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/jointstream/errors"
)

func TestNewMetricsRegistry(t *testing.T) {
	registry := NewMetricsRegistry()

	require.NotNil(t, registry)
	assert.NotNil(t, registry.PrometheusRegistry())
	assert.NotNil(t, registry.CoreMetrics())
}

func TestRegisterCounter(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_samples_total",
		Help: "Test counter",
	})

	err := registry.RegisterCounter("wrapper-a", "samples", counter)
	require.NoError(t, err)

	// Duplicate registration under the same key must fail as invalid
	err = registry.RegisterCounter("wrapper-a", "samples", counter)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))

	// Same metric name under a different instance is fine with a distinct collector
	other := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_samples_other_total",
		Help: "Test counter",
	})
	assert.NoError(t, registry.RegisterCounter("wrapper-b", "samples", other))
}

func TestRegisterGaugeAndHistogram(t *testing.T) {
	registry := NewMetricsRegistry()

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "test_joints_bound",
		Help: "Test gauge",
	})
	require.NoError(t, registry.RegisterGauge("wrapper-a", "joints", gauge))

	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "test_cycle_seconds",
		Help: "Test histogram",
	})
	require.NoError(t, registry.RegisterHistogram("wrapper-a", "cycle", histogram))
}

func TestUnregister(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_unregister_total",
		Help: "Test counter",
	})
	require.NoError(t, registry.RegisterCounter("wrapper-a", "gone", counter))

	assert.True(t, registry.Unregister("wrapper-a", "gone"))
	assert.False(t, registry.Unregister("wrapper-a", "gone"), "second unregister should report missing")

	// Key is free again
	assert.NoError(t, registry.RegisterCounter("wrapper-a", "gone", counter))
}

func TestCoreMetricsRecording(t *testing.T) {
	registry := NewMetricsRegistry()
	core := registry.CoreMetrics()

	// Smoke the recording helpers; values are validated by prometheus internally
	core.RecordWrapperState("w", 3)
	core.RecordSampleCycle("w")
	core.RecordSampleDropped("w")
	core.RecordReadError("w", "torque")
	core.RecordCycleDuration("w", 5*time.Millisecond)
	core.RecordJointsBound("w", 6)
	core.RecordHealthStatus("w", true)
	core.RecordNATSStatus(true)
	core.RecordNATSRTT(2 * time.Millisecond)
	core.RecordNATSReconnect()
	core.RecordCircuitBreakerState(0)

	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
