// Package natsclient manages the process-wide NATS connection used as the
// publish/subscribe transport for joint-state messages.
//
// One Client is created per process, connected once at startup, and injected
// into every wrapper instance. The client wraps nats.go with:
//
//   - a circuit breaker that opens after repeated connection failures and
//     backs off exponentially before retesting
//   - background health monitoring that tracks connection status and RTT
//   - functional options for auth, TLS, timeouts, and metrics
//
// Publish is fire-and-forget over core NATS; delivery QoS matches the
// wrapper's best-effort telemetry policy, where a failed publish drops the
// sample rather than queueing it.
package natsclient
