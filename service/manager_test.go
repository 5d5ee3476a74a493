package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c360/jointstream/config"
	"github.com/c360/jointstream/errors"
)

func testAppConfig() *config.Config {
	return &config.Config{
		NATS: config.NATSConfig{URL: "nats://localhost:4222"},
		Wrappers: map[string]config.WrapperConfig{
			"head": {
				Enabled: true,
				Settings: json.RawMessage(`{
					"nodeName": "head_wrapper",
					"topicName": "/head/state",
					"subdevice": "simarm",
					"subdeviceConfig": {"joints": 2}
				}`),
			},
		},
	}
}

func TestNewManager_RequiresConfig(t *testing.T) {
	_, err := NewManager(Options{})
	assert.True(t, errors.IsInvalid(err))
}

func TestNewManager_RejectsInvalidConfig(t *testing.T) {
	cfg := testAppConfig()
	cfg.Wrappers = nil
	_, err := NewManager(Options{Config: cfg})
	assert.Error(t, err)
}

func TestNewManager_Defaults(t *testing.T) {
	m, err := NewManager(Options{Config: testAppConfig()})
	assert.NoError(t, err)
	assert.Equal(t, DefaultHealthInterval, m.healthInterval)
	assert.NotNil(t, m.Metrics())
}

func TestManager_StopBeforeStart(t *testing.T) {
	m, err := NewManager(Options{Config: testAppConfig()})
	assert.NoError(t, err)
	assert.NoError(t, m.Stop(context.Background(), 0))
}

func TestManager_EnabledWrapperNames(t *testing.T) {
	cfg := testAppConfig()
	cfg.Wrappers["arm"] = config.WrapperConfig{
		Enabled:  true,
		Settings: json.RawMessage(`{"nodeName":"arm_wrapper","topicName":"/arm/state"}`),
	}
	cfg.Wrappers["off"] = config.WrapperConfig{Enabled: false}

	m, err := NewManager(Options{Config: cfg})
	assert.NoError(t, err)
	assert.Equal(t, []string{"arm", "head"}, m.enabledWrapperNames())
}
