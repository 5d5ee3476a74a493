package component

import (
	"context"
	"time"
)

// LifecycleComponent defines components that support full lifecycle management:
//   - Initialize() error                    // Setup/validate only, NO context
//   - Start(ctx context.Context) error     // Start with context passed through
//   - Stop(timeout time.Duration) error    // Stop with timeout for graceful shutdown
//
// Stop must not return before the component's workers have fully exited; the
// timeout bounds how long the caller is willing to wait for that join.
type LifecycleComponent interface {
	Discoverable
	Initialize() error
	Start(ctx context.Context) error
	Stop(timeout time.Duration) error
}

// AsLifecycleComponent safely casts a component to LifecycleComponent
func AsLifecycleComponent(comp Discoverable) (LifecycleComponent, bool) {
	lc, ok := comp.(LifecycleComponent)
	return lc, ok
}
