package jointstate

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/jointstream/device"
	"github.com/c360/jointstream/pkg/timestamp"
)

func boundTestWrapper(t *testing.T, cfg Config, arm *testArm) (*Wrapper, *device.Binding) {
	t.Helper()
	w, _ := newTestWrapper(t, cfg)
	require.NoError(t, w.Initialize())

	b, err := device.Bind(arm, device.OwnedExternal, w.logger)
	require.NoError(t, err)
	require.NoError(t, b.ReadPositionsTimed())
	require.NoError(t, b.ReadVelocities())
	require.NoError(t, b.ReadTorques())
	return w, b
}

func TestBuildSample_RevoluteConversion(t *testing.T) {
	arm := newTestArm(3)
	arm.types = []device.JointType{
		device.JointTypeRevolute,
		device.JointTypeFixed,
		device.JointTypeRevolute,
	}
	arm.positions = []float64{180, 90, 90}

	w, b := boundTestWrapper(t, fastConfig(), arm)
	js := w.buildSample(b)

	assert.InDelta(t, math.Pi, js.Position[0], 1e-12)
	assert.InDelta(t, 90, js.Position[1], 1e-12, "non-revolute joints pass through")
	assert.InDelta(t, math.Pi/2, js.Position[2], 1e-12)
}

func TestBuildSample_EncoderStampMean(t *testing.T) {
	arm := newTestArm(3)
	arm.stamps = []float64{1, 2, 3}

	w, b := boundTestWrapper(t, fastConfig(), arm)
	js := w.buildSample(b)

	assert.Equal(t, timestamp.FromSeconds(2.0), js.Stamp)
	assert.Equal(t, "encoder", js.StampSource)
}

func TestBuildSample_WallclockStamp(t *testing.T) {
	arm := newTestArm(1)
	arm.stamps = []float64{1}

	cfg := fastConfig()
	cfg.StampSource = StampWallclock
	w, b := boundTestWrapper(t, cfg, arm)

	before := timestamp.Now()
	js := w.buildSample(b)
	assert.GreaterOrEqual(t, js.Stamp, before)
	assert.Equal(t, "wallclock", js.StampSource)
}

func TestBuildSample_NoTorqueZeroEfforts(t *testing.T) {
	arm := newTestArm(2)
	arm.noTorque = true

	w, _ := newTestWrapper(t, fastConfig())
	require.NoError(t, w.Initialize())

	// Hide the torque view entirely
	b, err := device.Bind(&noTorqueView{arm}, device.OwnedExternal, w.logger)
	require.NoError(t, err)
	require.NoError(t, b.ReadPositionsTimed())
	require.NoError(t, b.ReadTorques())

	js := w.buildSample(b)
	assert.Equal(t, []float64{0, 0}, js.Effort)
}

func TestBuildSample_FreshArraysPerCycle(t *testing.T) {
	arm := newTestArm(1)
	arm.positions = []float64{90}

	w, b := boundTestWrapper(t, fastConfig(), arm)

	first := w.buildSample(b)
	second := w.buildSample(b)

	// Raw buffers stay in degrees; conversion never compounds
	assert.InDelta(t, first.Position[0], second.Position[0], 1e-12)
	assert.InDelta(t, 90*degToRad, second.Position[0], 1e-12)
}

func TestSampleCycle_PublishesValidEnvelope(t *testing.T) {
	arm := newTestArm(2)
	arm.stamps = []float64{10, 20}

	w, b := boundTestWrapper(t, fastConfig(), arm)
	pub := w.publisher.(*capturePublisher)

	w.sampleCycle(context.Background(), b, "test.state")
	require.Equal(t, 1, pub.count())
	assert.Equal(t, "test.state", pub.last().subject)
}

// noTorqueView hides the torque capability of a testArm.
type noTorqueView struct{ arm *testArm }

func (n *noTorqueView) Close() error                                { return n.arm.Close() }
func (n *noTorqueView) Axes() (int, error)                          { return n.arm.Axes() }
func (n *noTorqueView) Positions(out []float64) error               { return n.arm.Positions(out) }
func (n *noTorqueView) PositionsTimed(p, s []float64) error         { return n.arm.PositionsTimed(p, s) }
func (n *noTorqueView) Velocities(out []float64) error              { return n.arm.Velocities(out) }
func (n *noTorqueView) AxisName(j int) (string, error)              { return n.arm.AxisName(j) }
func (n *noTorqueView) JointType(j int) (device.JointType, error)   { return n.arm.JointType(j) }
