package device

import (
	"fmt"
	"log/slog"

	"github.com/c360/jointstream/errors"
)

// Ownership records who is responsible for closing a bound device.
type Ownership int

const (
	// OwnedExternal means the device was attached by the host; the host
	// closes it after detaching
	OwnedExternal Ownership = iota
	// OwnedSelf means the binding opened the device itself (subdevice
	// mode) and closes it on unbind
	OwnedSelf
)

// String returns the string representation of Ownership
func (o Ownership) String() string {
	if o == OwnedSelf {
		return "self"
	}
	return "external"
}

// Binding holds the capability views, joint metadata, and sample buffers for
// one bound device. Binding is all-or-nothing: if any mandatory capability is
// missing or metadata queries fail, no binding is produced and no buffers are
// allocated.
//
// The sample buffers are owned exclusively by the wrapper's sampling loop
// while it runs; Binding does no locking of its own.
type Binding struct {
	logger    *slog.Logger
	dev       Driver
	ownership Ownership

	pos    PositionReader
	enc    TimedEncoders
	torque TorqueSensor // nil when the device has no torque capability
	axes   AxisInfo

	joints int
	names  []string
	types  []JointType

	positions  []float64
	velocities []float64
	efforts    []float64
	stamps     []float64
}

// Bind probes dev for the required capability views, queries joint metadata,
// and allocates the sample buffers. Mandatory capabilities are position
// reading, timed encoders, and axis info; torque sensing is optional and its
// absence leaves efforts permanently zero.
func Bind(dev Driver, ownership Ownership, logger *slog.Logger) (*Binding, error) {
	if dev == nil {
		return nil, errors.WrapInvalid(fmt.Errorf("nil device"), "device", "Bind", "validate device")
	}
	if logger == nil {
		logger = slog.Default()
	}

	pos, ok := dev.(PositionReader)
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: position reading", errors.ErrCapabilityMissing),
			"device", "Bind", "probe capabilities")
	}
	enc, ok := dev.(TimedEncoders)
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: timed encoders", errors.ErrCapabilityMissing),
			"device", "Bind", "probe capabilities")
	}
	axes, ok := dev.(AxisInfo)
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: axis info", errors.ErrCapabilityMissing),
			"device", "Bind", "probe capabilities")
	}

	torque, hasTorque := dev.(TorqueSensor)
	if !hasTorque {
		logger.Warn("device has no torque capability, efforts will be zero")
	}

	joints, err := pos.Axes()
	if err != nil {
		return nil, errors.Wrap(err, "device", "Bind", "query axis count")
	}
	if joints <= 0 {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %d", errors.ErrInvalidJointCount, joints),
			"device", "Bind", "validate axis count")
	}

	names := make([]string, joints)
	types := make([]JointType, joints)
	for i := 0; i < joints; i++ {
		name, err := axes.AxisName(i)
		if err != nil {
			return nil, errors.Wrap(err, "device", "Bind", fmt.Sprintf("query name of joint %d", i))
		}
		if name == "" {
			return nil, errors.WrapInvalid(
				fmt.Errorf("%w: joint %d", errors.ErrAxisNameUnknown, i),
				"device", "Bind", "validate joint names")
		}
		names[i] = name

		jt, err := axes.JointType(i)
		if err != nil {
			return nil, errors.Wrap(err, "device", "Bind", fmt.Sprintf("query type of joint %d", i))
		}
		types[i] = jt
	}

	b := &Binding{
		logger:     logger,
		dev:        dev,
		ownership:  ownership,
		pos:        pos,
		enc:        enc,
		axes:       axes,
		joints:     joints,
		names:      names,
		types:      types,
		positions:  make([]float64, joints),
		velocities: make([]float64, joints),
		efforts:    make([]float64, joints),
		stamps:     make([]float64, joints),
	}
	if hasTorque {
		b.torque = torque
	}

	logger.Info("device bound",
		"joints", joints,
		"ownership", ownership.String(),
		"torque", hasTorque)

	return b, nil
}

// Unbind releases the binding. Self-owned devices are closed; externally
// attached devices are left open for the host to close.
func (b *Binding) Unbind() error {
	if b.ownership == OwnedSelf {
		if err := b.dev.Close(); err != nil {
			return errors.Wrap(err, "device", "Unbind", "close owned device")
		}
	}
	return nil
}

// ReadPositionsTimed refreshes the position and stamp buffers from the
// device. On failure the buffers keep their previous contents.
func (b *Binding) ReadPositionsTimed() error {
	if err := b.enc.PositionsTimed(b.positions, b.stamps); err != nil {
		return errors.WrapTransient(
			fmt.Errorf("%w: %w", errors.ErrReadFailed, err),
			"device", "ReadPositionsTimed", "read encoders")
	}
	return nil
}

// ReadVelocities refreshes the velocity buffer from the device
func (b *Binding) ReadVelocities() error {
	if err := b.enc.Velocities(b.velocities); err != nil {
		return errors.WrapTransient(
			fmt.Errorf("%w: %w", errors.ErrReadFailed, err),
			"device", "ReadVelocities", "read velocities")
	}
	return nil
}

// ReadTorques refreshes the effort buffer from the device. Devices without
// torque capability leave the buffer at zero and report success.
func (b *Binding) ReadTorques() error {
	if b.torque == nil {
		return nil
	}
	if err := b.torque.Torques(b.efforts); err != nil {
		return errors.WrapTransient(
			fmt.Errorf("%w: %w", errors.ErrReadFailed, err),
			"device", "ReadTorques", "read torques")
	}
	return nil
}

// Joints returns the number of bound joints
func (b *Binding) Joints() int { return b.joints }

// Names returns the per-joint names, indexed by joint
func (b *Binding) Names() []string { return b.names }

// Types returns the per-joint classifications, indexed by joint
func (b *Binding) Types() []JointType { return b.types }

// Positions returns the position sample buffer (native device units)
func (b *Binding) Positions() []float64 { return b.positions }

// Velocities returns the velocity sample buffer (native device units)
func (b *Binding) Velocities() []float64 { return b.velocities }

// Efforts returns the effort sample buffer
func (b *Binding) Efforts() []float64 { return b.efforts }

// Stamps returns the per-joint acquisition stamps (Unix seconds)
func (b *Binding) Stamps() []float64 { return b.stamps }

// HasTorque reports whether the bound device supports torque reads
func (b *Binding) HasTorque() bool { return b.torque != nil }

// Owner reports who is responsible for closing the device
func (b *Binding) Owner() Ownership { return b.ownership }

// Device returns the underlying driver
func (b *Binding) Device() Driver { return b.dev }
