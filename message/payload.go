package message

// Payload is the domain data carried by an envelope. Implementations own
// their JSON representation via the standard marshaler interfaces.
type Payload interface {
	// Schema returns the structured type of this payload
	Schema() Type

	// Validate checks domain-specific rules before transmission
	Validate() error
}
