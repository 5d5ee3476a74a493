// Package errors provides standardized error handling patterns for jointstream components.
//
// # Overview
//
// The errors package implements a three-class error classification system for the
// joint-state wrapper: Transient (degrades a single sampling cycle), Invalid
// (bad input or configuration, fails the lifecycle transition), and Fatal
// (unrecoverable, stop processing).
//
// This classification encodes the wrapper's error policy directly: configuration
// and binding failures are Invalid and abort Open/Attach with full rollback, while
// capability-read and publish failures are Transient and never propagate out of the
// sampling loop - the loop logs them and continues at the next period.
//
// The classification system integrates with Go's standard error handling patterns,
// supporting errors.Is(), errors.As(), and error wrapping chains.
//
// # Quick Start
//
// Use standard error variables for known conditions:
//
//	if cfg.TopicName == "" {
//	    return errors.ErrMissingConfig
//	}
//
// Wrap errors with context for debugging:
//
//	if err := binding.Bind(dev, device.OwnedExternal); err != nil {
//	    return errors.WrapInvalid(err, "Wrapper", "Attach", "device binding")
//	}
//
// Check classification to decide between abort and degrade:
//
//	if err := publisher.Publish(ctx, subject, data); err != nil {
//	    if errors.IsTransient(err) {
//	        logger.Warn("publish failed, dropping sample", "error", err)
//	    }
//	}
package errors
