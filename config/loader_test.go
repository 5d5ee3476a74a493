package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `{
	"nats": {"url": "nats://localhost:4222", "username": "${JOINTSTREAM_TEST_USER}"},
	"wrappers": {
		"head": {
			"enabled": true,
			"settings": {
				"nodeName": "head_wrapper",
				"topicName": "/head/state",
				"period": 0.05,
				"subdevice": "simarm",
				"subdeviceConfig": {"joints": 3}
			}
		}
	}
}`

func TestLoadJSON(t *testing.T) {
	t.Setenv("JOINTSTREAM_TEST_USER", "svc")

	cfg, err := LoadJSON([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "svc", cfg.NATS.Username, "env references are expanded")
	assert.Equal(t, "jointstream", cfg.NATS.Name, "defaults applied")

	wcfg, err := cfg.WrapperSettings("head")
	require.NoError(t, err)
	assert.Equal(t, "simarm", wcfg.Subdevice)
	assert.Equal(t, 0.05, wcfg.Period)
}

func TestLoadJSON_Malformed(t *testing.T) {
	_, err := LoadJSON([]byte(`{"nats": `))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Contains(t, cfg.Wrappers, "head")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
