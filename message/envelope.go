package message

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/c360/jointstream/pkg/timestamp"
)

// Envelope wraps a payload with identity and provenance for transmission.
// Envelopes are immutable after creation.
type Envelope struct {
	id        string
	msgType   Type
	payload   Payload
	source    string
	createdAt time.Time
}

// EnvelopeOption configures envelope construction
type EnvelopeOption func(*Envelope)

// WithTime sets a specific creation timestamp instead of time.Now().
// Useful for tests and replayed data.
func WithTime(createdAt time.Time) EnvelopeOption {
	return func(e *Envelope) {
		e.createdAt = createdAt
	}
}

// NewEnvelope wraps payload for transmission. Source identifies the wrapper
// instance that produced it.
func NewEnvelope(payload Payload, source string, opts ...EnvelopeOption) *Envelope {
	e := &Envelope{
		id:        uuid.New().String(),
		msgType:   payload.Schema(),
		payload:   payload,
		source:    source,
		createdAt: time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ID returns the unique message identifier
func (e *Envelope) ID() string { return e.id }

// Type returns the payload schema
func (e *Envelope) Type() Type { return e.msgType }

// Payload returns the wrapped payload
func (e *Envelope) Payload() Payload { return e.payload }

// Source returns the producing instance identifier
func (e *Envelope) Source() string { return e.source }

// CreatedAt returns the envelope creation time
func (e *Envelope) CreatedAt() time.Time { return e.createdAt }

// Validate checks envelope structure and delegates to the payload
func (e *Envelope) Validate() error {
	if e.id == "" {
		return fmt.Errorf("envelope: missing id")
	}
	if e.source == "" {
		return fmt.Errorf("envelope: missing source")
	}
	if err := e.msgType.Validate(); err != nil {
		return err
	}
	if e.payload == nil {
		return fmt.Errorf("envelope: nil payload")
	}
	return e.payload.Validate()
}

// envelopeWire is the JSON wire representation
type envelopeWire struct {
	ID        string          `json:"id"`
	Type      Type            `json:"type"`
	Source    string          `json:"source"`
	CreatedAt int64           `json:"createdAt"`
	Payload   json.RawMessage `json:"payload"`
}

// MarshalJSON implements json.Marshaler. Timestamps travel as Unix
// milliseconds.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	payloadData, err := json.Marshal(e.payload)
	if err != nil {
		return nil, fmt.Errorf("envelope: marshal payload: %w", err)
	}
	return json.Marshal(envelopeWire{
		ID:        e.id,
		Type:      e.msgType,
		Source:    e.source,
		CreatedAt: timestamp.ToUnixMs(e.createdAt),
		Payload:   payloadData,
	})
}

// DecodeJointState parses an envelope carrying a joint-state payload
func DecodeJointState(data []byte) (*Envelope, *JointState, error) {
	var wire envelopeWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, nil, fmt.Errorf("envelope: decode: %w", err)
	}
	if wire.Type != JointStateType {
		return nil, nil, fmt.Errorf("envelope: unexpected type %q", wire.Type.Key())
	}

	js := &JointState{}
	if err := json.Unmarshal(wire.Payload, js); err != nil {
		return nil, nil, fmt.Errorf("envelope: decode payload: %w", err)
	}

	e := &Envelope{
		id:        wire.ID,
		msgType:   wire.Type,
		payload:   js,
		source:    wire.Source,
		createdAt: timestamp.FromUnixMs(wire.CreatedAt),
	}
	return e, js, nil
}
