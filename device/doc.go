// Package device defines the motion-control device abstraction the wrapper
// samples from.
//
// A Driver is a concrete device implementation; its optional capability views
// (PositionReader, TimedEncoders, TorqueSensor, AxisInfo) are discovered by
// type assertion. Binding probes a driver for the mandatory views, captures
// the joint name table, and owns the reusable sample buffers the wrapper's
// loop reads into each cycle.
//
// Registry maps driver names to factories so a wrapper configured with a
// subdevice can instantiate and own its device at open time.
package device
