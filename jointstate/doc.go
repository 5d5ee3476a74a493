// Package jointstate implements the joint-state network wrapper: a managed
// component that periodically samples position, velocity, and torque from a
// bound motion-control device and republishes the snapshot as a structured
// message over NATS.
//
// # Lifecycle
//
// A wrapper moves through four states:
//
//	closed -> configured -> bound -> running -> closed
//
// Open validates configuration; if a subdevice is configured the wrapper
// opens it through the driver registry, binds it as self-owned, and starts
// sampling immediately. Otherwise the host attaches an externally owned
// device, which starts sampling. Detach releases an external device and
// returns to configured; a self-owned subdevice can only be released by
// Close. All transitions are all-or-nothing: a failed open or attach leaves
// no partial state behind.
//
// # Sampling
//
// The loop ticks at the configured period (default 20ms). Each cycle bulk
// reads positions with per-joint stamps, velocities, and torques into
// reusable buffers, converts revolute joints from degrees to radians, and
// publishes one message. Read and publish failures are logged and degrade
// only that cycle; there are no retries inside the loop.
package jointstate
