package message

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	js := validJointState()
	e := NewEnvelope(js, "head_wrapper")

	assert.NotEmpty(t, e.ID())
	assert.Equal(t, JointStateType, e.Type())
	assert.Equal(t, "head_wrapper", e.Source())
	assert.Same(t, js, e.Payload().(*JointState))
	assert.WithinDuration(t, time.Now(), e.CreatedAt(), time.Second)
	assert.NoError(t, e.Validate())
}

func TestNewEnvelope_WithTime(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	e := NewEnvelope(validJointState(), "head_wrapper", WithTime(at))
	assert.Equal(t, at, e.CreatedAt())
}

func TestEnvelope_Validate(t *testing.T) {
	e := NewEnvelope(validJointState(), "")
	assert.Error(t, e.Validate(), "source is required")

	bad := validJointState()
	bad.Name = nil
	e = NewEnvelope(bad, "head_wrapper")
	assert.Error(t, e.Validate(), "payload validation propagates")
}

func TestEnvelope_WireRoundTrip(t *testing.T) {
	js := validJointState()
	e := NewEnvelope(js, "head_wrapper")

	data, err := json.Marshal(e)
	require.NoError(t, err)

	decoded, payload, err := DecodeJointState(data)
	require.NoError(t, err)

	assert.Equal(t, e.ID(), decoded.ID())
	assert.Equal(t, "head_wrapper", decoded.Source())
	assert.Equal(t, js.Name, payload.Name)
	assert.Equal(t, js.Position, payload.Position)
	assert.Equal(t, js.Stamp, payload.Stamp)
}

func TestDecodeJointState_Errors(t *testing.T) {
	_, _, err := DecodeJointState([]byte("not json"))
	assert.Error(t, err)

	wrongType := []byte(`{"id":"x","type":{"domain":"a","category":"b","version":"v1"},"source":"s","createdAt":0,"payload":{}}`)
	_, _, err = DecodeJointState(wrongType)
	assert.Error(t, err)
}
