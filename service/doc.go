// Package service assembles the process: one NATS client, one metrics
// registry, every enabled wrapper instance, and a small HTTP management
// endpoint (/healthz, /status, /metrics).
//
// Manager owns start and stop ordering. Start connects the transport first,
// then opens wrappers one by one, failing fast and rolling everything back
// if any open fails. Stop reverses that: wrappers drain their in-flight
// sampling cycles before the transport is closed.
package service
