package message

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/c360/jointstream/pkg/timestamp"
)

// JointStateType is the schema of joint-state telemetry messages
var JointStateType = Type{Domain: "device", Category: "jointstate", Version: "v1"}

// JointState carries one sampled snapshot of a device's joints. All slices
// are indexed by joint and have equal length; positions of revolute joints
// are in radians, velocities in radians per second, efforts in newton-meters.
//
// Stamp is the representative acquisition time in Unix milliseconds.
// StampSource records how it was derived ("wallclock" or "encoder").
type JointState struct {
	Name        []string  `json:"name"`
	Position    []float64 `json:"position"`
	Velocity    []float64 `json:"velocity"`
	Effort      []float64 `json:"effort"`
	Stamp       int64     `json:"stamp"`
	StampSource string    `json:"stampSource,omitempty"`
}

// Schema returns the structured type of joint-state payloads
func (js *JointState) Schema() Type {
	return JointStateType
}

// Validate checks that the per-joint arrays are consistent
func (js *JointState) Validate() error {
	n := len(js.Name)
	if n == 0 {
		return fmt.Errorf("joint state: no joints")
	}
	for i, name := range js.Name {
		if name == "" {
			return fmt.Errorf("joint state: empty name at joint %d", i)
		}
	}
	if len(js.Position) != n || len(js.Velocity) != n || len(js.Effort) != n {
		return fmt.Errorf("joint state: array lengths differ (name=%d position=%d velocity=%d effort=%d)",
			n, len(js.Position), len(js.Velocity), len(js.Effort))
	}
	if js.Stamp < 0 {
		return fmt.Errorf("joint state: negative stamp %d", js.Stamp)
	}
	return nil
}

// Timestamp returns the representative acquisition time
func (js *JointState) Timestamp() time.Time {
	return timestamp.FromUnixMs(js.Stamp)
}

// MarshalJSON implements json.Marshaler
func (js *JointState) MarshalJSON() ([]byte, error) {
	type Alias JointState
	return json.Marshal((*Alias)(js))
}

// UnmarshalJSON implements json.Unmarshaler
func (js *JointState) UnmarshalJSON(data []byte) error {
	type Alias JointState
	return json.Unmarshal(data, (*Alias)(js))
}
