package message

import (
	"fmt"
	"strings"
)

// Type identifies a message schema as domain.category.version. The dotted
// key doubles as the default NATS subject for messages of that schema.
type Type struct {
	Domain   string `json:"domain"`
	Category string `json:"category"`
	Version  string `json:"version"`
}

// Key returns the dotted notation used for NATS subjects and storage keys
func (t Type) Key() string {
	return fmt.Sprintf("%s.%s.%s", t.Domain, t.Category, t.Version)
}

// Validate checks that all three parts are present and free of dots
func (t Type) Validate() error {
	for _, part := range []struct {
		name, value string
	}{
		{"domain", t.Domain},
		{"category", t.Category},
		{"version", t.Version},
	} {
		if part.value == "" {
			return fmt.Errorf("message type: missing %s", part.name)
		}
		if strings.Contains(part.value, ".") {
			return fmt.Errorf("message type: %s %q must not contain dots", part.name, part.value)
		}
	}
	return nil
}

// String implements fmt.Stringer
func (t Type) String() string {
	return t.Key()
}
