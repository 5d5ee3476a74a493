// Package component provides the lifecycle and discovery contracts shared by
// jointstream components.
//
// A component moves through created -> initialized -> started -> stopped, with
// failed reachable from any transition. The host drives these transitions
// through the LifecycleComponent interface; the component never stores the
// context it is started with - it receives it as a parameter and derives its
// worker lifetimes from it.
//
// Discoverable exposes identity, health, and flow metrics so a management
// layer can inspect running components without depending on concrete types.
// Dependencies carries the shared infrastructure (NATS client, metrics
// registry, logger) injected into every component constructor.
package component
