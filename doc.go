// Package jointstream republishes motion-control device state over NATS.
//
// A wrapper instance binds one device (attached by the host or opened as an
// owned subdevice), samples joint positions, velocities, and torques at a
// fixed period, and publishes each snapshot as a structured joint-state
// message. The packages compose in layers:
//
//   - device: driver abstraction, capability probing, and the sample binding
//   - jointstate: the wrapper lifecycle and sampling loop
//   - message: the joint-state schema and wire envelope
//   - natsclient: the shared NATS connection with circuit breaking
//   - service: process assembly and the management endpoint
//   - config, errors, health, metric, component: ambient infrastructure
//
// cmd/jointstream is the runnable entry point.
package jointstream
