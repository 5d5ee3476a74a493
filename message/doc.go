// Package message defines the joint-state telemetry schema and the envelope
// that carries it over NATS.
//
// A JointState payload holds one sampled snapshot of a device's joints:
// parallel name, position, velocity, and effort arrays plus a representative
// acquisition stamp. Envelope adds identity (UUID), provenance (source
// wrapper), and a creation timestamp, and owns the JSON wire format.
//
// Subjects are derived from the schema Type ("device.jointstate.v1") unless
// the wrapper's configured topic overrides them.
package message
