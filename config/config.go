package config

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/c360/jointstream/errors"
	"github.com/c360/jointstream/jointstate"
	"github.com/c360/jointstream/natsclient"
)

// Config is the complete application configuration: one NATS connection and
// any number of wrapper instances.
type Config struct {
	Version  string                   `json:"version,omitempty"`
	NATS     NATSConfig               `json:"nats"`
	Wrappers map[string]WrapperConfig `json:"wrappers"`
}

// NATSConfig defines the NATS connection settings
type NATSConfig struct {
	URL           string        `json:"url,omitempty"`
	Name          string        `json:"name,omitempty"`
	MaxReconnects int           `json:"maxReconnects,omitempty"`
	ReconnectWait float64       `json:"reconnectWaitSeconds,omitempty"`
	Timeout       float64       `json:"timeoutSeconds,omitempty"`
	Username      string        `json:"username,omitempty"`
	Password      string        `json:"password,omitempty"`
	Token         string        `json:"token,omitempty"`
	TLS           NATSTLSConfig `json:"tls,omitempty"`
}

// NATSTLSConfig for secure NATS connections
type NATSTLSConfig struct {
	Enabled  bool   `json:"enabled"`
	CertFile string `json:"certFile,omitempty"`
	KeyFile  string `json:"keyFile,omitempty"`
	CAFile   string `json:"caFile,omitempty"`
}

// WrapperConfig holds one wrapper instance entry. Instances are only created
// when Enabled is true; Settings is the raw jointstate configuration.
type WrapperConfig struct {
	Enabled  bool            `json:"enabled"`
	Settings json.RawMessage `json:"settings"`
}

// DefaultNATSURL is used when the configuration omits a NATS URL
const DefaultNATSURL = "nats://127.0.0.1:4222"

func (c *Config) applyDefaults() {
	if c.NATS.URL == "" {
		c.NATS.URL = DefaultNATSURL
	}
	if c.NATS.Name == "" {
		c.NATS.Name = "jointstream"
	}
}

// Validate checks the whole configuration, including every enabled wrapper's
// settings, before anything is instantiated.
func (c *Config) Validate() error {
	if len(c.Wrappers) == 0 {
		return errors.WrapInvalid(
			fmt.Errorf("%w: no wrappers configured", errors.ErrMissingConfig),
			"config", "Validate", "check wrappers")
	}

	enabled := 0
	for name, wc := range c.Wrappers {
		if !wc.Enabled {
			continue
		}
		enabled++
		if len(wc.Settings) == 0 {
			return errors.WrapInvalid(
				fmt.Errorf("%w: wrapper %q has no settings", errors.ErrMissingConfig, name),
				"config", "Validate", "check wrapper settings")
		}
		wcfg, err := jointstate.ParseConfig(wc.Settings)
		if err != nil {
			return errors.Wrap(err, "config", "Validate", fmt.Sprintf("parse wrapper %q", name))
		}
		if err := wcfg.Validate(); err != nil {
			return errors.Wrap(err, "config", "Validate", fmt.Sprintf("validate wrapper %q", name))
		}
	}
	if enabled == 0 {
		return errors.WrapInvalid(
			fmt.Errorf("%w: all wrappers disabled", errors.ErrInvalidConfig),
			"config", "Validate", "check wrappers")
	}
	return nil
}

// WrapperSettings parses the named wrapper's settings
func (c *Config) WrapperSettings(name string) (jointstate.Config, error) {
	wc, ok := c.Wrappers[name]
	if !ok {
		return jointstate.Config{}, errors.WrapInvalid(
			fmt.Errorf("%w: wrapper %q", errors.ErrMissingConfig, name),
			"config", "WrapperSettings", "look up wrapper")
	}
	return jointstate.ParseConfig(wc.Settings)
}

// ClientOptions converts the NATS settings into client options
func (n *NATSConfig) ClientOptions() []natsclient.ClientOption {
	opts := []natsclient.ClientOption{
		natsclient.WithName(n.Name),
	}
	if n.MaxReconnects != 0 {
		opts = append(opts, natsclient.WithMaxReconnects(n.MaxReconnects))
	}
	if n.ReconnectWait > 0 {
		opts = append(opts, natsclient.WithReconnectWait(secondsToDuration(n.ReconnectWait)))
	}
	if n.Timeout > 0 {
		opts = append(opts, natsclient.WithTimeout(secondsToDuration(n.Timeout)))
	}
	if n.Username != "" {
		opts = append(opts, natsclient.WithCredentials(n.Username, n.Password))
	}
	if n.Token != "" {
		opts = append(opts, natsclient.WithToken(n.Token))
	}
	if n.TLS.Enabled {
		opts = append(opts, natsclient.WithTLS(n.TLS.CertFile, n.TLS.KeyFile, n.TLS.CAFile))
	}
	return opts
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	if c == nil {
		return &Config{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		copied := *c
		return &copied
	}
	var clone Config
	if err := json.Unmarshal(data, &clone); err != nil {
		copied := *c
		return &copied
	}
	return &clone
}

// SafeConfig provides thread-safe access to configuration
type SafeConfig struct {
	mu     sync.RWMutex
	config *Config
}

// NewSafeConfig creates a new thread-safe config wrapper
func NewSafeConfig(cfg *Config) *SafeConfig {
	if cfg == nil {
		cfg = &Config{}
	}
	return &SafeConfig{config: cfg}
}

// Get returns a deep copy of the current configuration
func (sc *SafeConfig) Get() *Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config.Clone()
}

// Update atomically replaces the configuration after validation
func (sc *SafeConfig) Update(cfg *Config) error {
	if cfg == nil {
		return errors.WrapInvalid(
			fmt.Errorf("%w: nil config", errors.ErrInvalidConfig),
			"config", "Update", "check config")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.config = cfg
	return nil
}
