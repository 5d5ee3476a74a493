package device

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/c360/jointstream/errors"
)

// Factory creates a driver instance from its raw JSON configuration.
// The driver must come back already opened and ready for capability probing.
type Factory func(rawConfig json.RawMessage, logger *slog.Logger) (Driver, error)

// Registry maps driver names to factories. Drivers register at process
// startup; wrappers with a subdevice configured instantiate through the
// registry at open time.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty driver registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a driver factory under the given name.
// Registering the same name twice is a programming error.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return errors.WrapInvalid(fmt.Errorf("empty driver name"), "device", "Register", "validate name")
	}
	if factory == nil {
		return errors.WrapInvalid(fmt.Errorf("nil factory for driver %q", name), "device", "Register", "validate factory")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.WrapInvalid(fmt.Errorf("driver %q already registered", name), "device", "Register", "register driver")
	}
	r.factories[name] = factory
	return nil
}

// Create instantiates and opens the named driver
func (r *Registry) Create(name string, rawConfig json.RawMessage, logger *slog.Logger) (Driver, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %q", errors.ErrDriverNotFound, name),
			"device", "Create", "look up driver")
	}

	drv, err := factory(rawConfig, logger)
	if err != nil {
		return nil, errors.Wrap(err, "device", "Create", fmt.Sprintf("open driver %q", name))
	}
	return drv, nil
}

// List returns the registered driver names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
