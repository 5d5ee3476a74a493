package jointstate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/c360/jointstream/errors"
)

// DefaultPeriod is the sampling period in seconds used when the
// configuration omits one.
const DefaultPeriod = 0.02

// StampSource selects how the representative message stamp is derived.
type StampSource string

const (
	// StampEncoder averages the per-joint encoder acquisition stamps
	// (the default)
	StampEncoder StampSource = "encoder"
	// StampWallclock stamps each message with the publish wallclock time
	StampWallclock StampSource = "wallclock"
)

// Config holds one wrapper instance's settings.
type Config struct {
	// Period is the sampling period in seconds. An omitted period selects
	// DefaultPeriod; a period present in the settings must be positive.
	Period float64 `json:"period,omitempty"`

	// NodeName identifies this wrapper instance on the mesh. Required.
	NodeName string `json:"nodeName"`

	// TopicName is the topic joint states are published on. Required.
	// Slash-separated topic paths are normalized to NATS dotted subjects.
	TopicName string `json:"topicName"`

	// Subdevice optionally names a registered driver the wrapper opens
	// and owns itself. When empty the host must attach a device.
	Subdevice string `json:"subdevice,omitempty"`

	// SubdeviceConfig is passed verbatim to the subdevice driver factory
	SubdeviceConfig json.RawMessage `json:"subdeviceConfig,omitempty"`

	// StampSource selects the representative stamp derivation
	// (default "encoder")
	StampSource StampSource `json:"stampSource,omitempty"`
}

// ParseConfig decodes raw JSON wrapper settings. Malformed JSON and wrong
// field types (a non-numeric period, for instance) are configuration errors,
// as is a period that is present but not positive. Only an absent period
// falls back to the default later.
func ParseConfig(raw json.RawMessage) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errors.WrapInvalid(
			fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err),
			"jointstate", "ParseConfig", "decode config")
	}

	// A zero Period is ambiguous after decoding: it could be an omitted
	// field or an explicit "period": 0. Re-decode through a pointer to
	// tell them apart.
	var presence struct {
		Period *float64 `json:"period"`
	}
	if err := json.Unmarshal(raw, &presence); err == nil &&
		presence.Period != nil && *presence.Period <= 0 {
		return Config{}, errors.WrapInvalid(
			fmt.Errorf("%w: %g", errors.ErrInvalidPeriod, *presence.Period),
			"jointstate", "ParseConfig", "check period")
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Period == 0 {
		c.Period = DefaultPeriod
	}
	if c.StampSource == "" {
		c.StampSource = StampEncoder
	}
}

// Validate checks the configuration before defaults are applied
func (c *Config) Validate() error {
	if c.NodeName == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%w: nodeName", errors.ErrMissingConfig),
			"jointstate", "Validate", "check nodeName")
	}
	if c.TopicName == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%w: topicName", errors.ErrMissingConfig),
			"jointstate", "Validate", "check topicName")
	}
	if c.Period < 0 {
		return errors.WrapInvalid(
			fmt.Errorf("%w: %g", errors.ErrInvalidPeriod, c.Period),
			"jointstate", "Validate", "check period")
	}
	switch c.StampSource {
	case "", StampEncoder, StampWallclock:
	default:
		return errors.WrapInvalid(
			fmt.Errorf("%w: unknown stampSource %q", errors.ErrInvalidConfig, c.StampSource),
			"jointstate", "Validate", "check stampSource")
	}
	if c.Subdevice == "" && len(c.SubdeviceConfig) > 0 {
		return errors.WrapInvalid(
			fmt.Errorf("%w: subdeviceConfig without subdevice", errors.ErrInvalidConfig),
			"jointstate", "Validate", "check subdevice")
	}
	return nil
}

// Subject returns the NATS subject derived from TopicName. Topic paths in
// slash notation ("/head/state") become dotted subjects ("head.state").
func (c *Config) Subject() string {
	s := strings.Trim(c.TopicName, "/")
	return strings.ReplaceAll(s, "/", ".")
}
