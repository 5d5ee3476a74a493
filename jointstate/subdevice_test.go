package jointstate

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/jointstream/device"
	"github.com/c360/jointstream/device/simarm"
	"github.com/c360/jointstream/errors"
	"github.com/c360/jointstream/message"
)

func newSubdeviceWrapper(t *testing.T, cfg Config) (*Wrapper, *capturePublisher) {
	t.Helper()
	drivers := device.NewRegistry()
	require.NoError(t, simarm.Register(drivers))

	pub := &capturePublisher{}
	w, err := New(Deps{Config: cfg, Publisher: pub, Drivers: drivers})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w, pub
}

func TestOpen_WithSubdevice(t *testing.T) {
	cfg := fastConfig()
	cfg.Subdevice = simarm.DriverName
	cfg.SubdeviceConfig = json.RawMessage(`{"joints":3}`)

	w, pub := newSubdeviceWrapper(t, cfg)
	require.NoError(t, w.Open(context.Background()))
	assert.Equal(t, StateRunning, w.State())

	assert.Eventually(t, func() bool { return pub.count() > 0 },
		2*time.Second, time.Millisecond)

	_, js, err := message.DecodeJointState(pub.last().data)
	require.NoError(t, err)
	assert.Equal(t, []string{"joint_0", "joint_1", "joint_2"}, js.Name)
	assert.NoError(t, js.Validate())
}

func TestOpen_WithSubdevice_AttachRejected(t *testing.T) {
	cfg := fastConfig()
	cfg.Subdevice = simarm.DriverName

	w, _ := newSubdeviceWrapper(t, cfg)
	require.NoError(t, w.Open(context.Background()))

	err := w.Attach(context.Background(), newTestArm(1))
	assert.ErrorIs(t, err, errors.ErrAlreadyBound)
}

func TestOpen_WithSubdevice_DetachRejected(t *testing.T) {
	cfg := fastConfig()
	cfg.Subdevice = simarm.DriverName

	w, _ := newSubdeviceWrapper(t, cfg)
	require.NoError(t, w.Open(context.Background()))

	err := w.Detach()
	assert.ErrorIs(t, err, errors.ErrSelfOwned)
	assert.Equal(t, StateRunning, w.State(), "failed detach changes nothing")

	require.NoError(t, w.Close())
	assert.Equal(t, StateClosed, w.State())
}

func TestOpen_UnknownSubdevice(t *testing.T) {
	cfg := fastConfig()
	cfg.Subdevice = "no_such_driver"

	w, _ := newSubdeviceWrapper(t, cfg)
	err := w.Open(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDriverNotFound)
	assert.Equal(t, StateClosed, w.State(), "failed open rolls back to closed")
}

func TestOpen_SubdeviceWithoutRegistry(t *testing.T) {
	cfg := fastConfig()
	cfg.Subdevice = "simarm"

	pub := &capturePublisher{}
	w, err := New(Deps{Config: cfg, Publisher: pub})
	require.NoError(t, err)

	err = w.Open(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
	assert.Equal(t, StateClosed, w.State())
}
