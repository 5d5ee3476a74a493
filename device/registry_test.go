package device

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/jointstream/errors"
)

func fakeFactory(joints int) Factory {
	return func(_ json.RawMessage, _ *slog.Logger) (Driver, error) {
		return newFakeArm(joints), nil
	}
}

func TestRegistry_RegisterAndCreate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("fake_arm", fakeFactory(4)))

	drv, err := r.Create("fake_arm", nil, slog.Default())
	require.NoError(t, err)
	require.NotNil(t, drv)

	pos, ok := drv.(PositionReader)
	require.True(t, ok)
	n, err := pos.Axes()
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("fake_arm", fakeFactory(1)))

	err := r.Register("fake_arm", fakeFactory(1))
	assert.True(t, errors.IsInvalid(err))
}

func TestRegistry_InvalidRegistrations(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register("", fakeFactory(1)))
	assert.Error(t, r.Register("nilfactory", nil))
}

func TestRegistry_UnknownDriver(t *testing.T) {
	r := NewRegistry()

	drv, err := r.Create("missing", nil, slog.Default())
	assert.Nil(t, drv)
	assert.ErrorIs(t, err, errors.ErrDriverNotFound)
}

func TestRegistry_FactoryFailure(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("broken", func(json.RawMessage, *slog.Logger) (Driver, error) {
		return nil, fmt.Errorf("no such port")
	}))

	drv, err := r.Create("broken", nil, slog.Default())
	assert.Nil(t, drv)
	assert.Error(t, err)
}

func TestRegistry_List(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("zeta", fakeFactory(1)))
	require.NoError(t, r.Register("alpha", fakeFactory(1)))

	assert.Equal(t, []string{"alpha", "zeta"}, r.List())
}
