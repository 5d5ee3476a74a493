package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/c360/jointstream/errors"
)

// LoadFile reads, expands, and validates a JSON configuration file.
// ${VAR} references are expanded from the environment before parsing so
// credentials stay out of the file itself.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %w", errors.ErrMissingConfig, err),
			"config", "LoadFile", fmt.Sprintf("read %s", path))
	}
	return LoadJSON(data)
}

// LoadJSON parses and validates raw JSON configuration
func LoadJSON(data []byte) (*Config, error) {
	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})

	var cfg Config
	if err := json.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err),
			"config", "LoadJSON", "decode config")
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
