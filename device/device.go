package device

// JointType classifies one degree of freedom of a device. Revolute joints
// report in degrees and are converted to radians before publishing; all other
// types pass through unconverted.
type JointType int

const (
	// JointTypeUnknown is reported when the device cannot classify a joint
	JointTypeUnknown JointType = iota
	// JointTypeRevolute is a rotational joint (native unit: degrees)
	JointTypeRevolute
	// JointTypePrismatic is a linear joint (native unit: meters)
	JointTypePrismatic
	// JointTypeFixed is a joint that does not move
	JointTypeFixed
)

// String returns the string representation of JointType
func (jt JointType) String() string {
	switch jt {
	case JointTypeRevolute:
		return "revolute"
	case JointTypePrismatic:
		return "prismatic"
	case JointTypeFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// ParseJointType maps a configuration string to a JointType
func ParseJointType(s string) JointType {
	switch s {
	case "revolute":
		return JointTypeRevolute
	case "prismatic":
		return JointTypePrismatic
	case "fixed":
		return JointTypeFixed
	default:
		return JointTypeUnknown
	}
}

// Driver is the minimal surface every device driver exposes. Capability
// interfaces below are discovered by type assertion on the Driver value,
// mirroring how hardware abstraction layers expose optional views of a
// device.
type Driver interface {
	// Close releases the device. Called by the binding only when the
	// binding owns the device instance.
	Close() error
}

// PositionReader reads bulk joint positions and reports the axis count.
type PositionReader interface {
	// Axes returns the number of controllable joints
	Axes() (int, error)

	// Positions fills out with the current joint positions.
	// len(out) must equal the axis count.
	Positions(out []float64) error
}

// TimedEncoders reads bulk positions with per-joint acquisition stamps, and
// bulk velocities. Stamps are float64 Unix seconds.
type TimedEncoders interface {
	// PositionsTimed fills pos with current joint positions and stamps
	// with the per-joint acquisition times
	PositionsTimed(pos, stamps []float64) error

	// Velocities fills out with the current joint velocities
	Velocities(out []float64) error
}

// TorqueSensor reads bulk joint efforts. Optional: a device without it
// publishes zero efforts.
type TorqueSensor interface {
	// Torques fills out with the current joint torques
	Torques(out []float64) error
}

// AxisInfo reports per-joint metadata.
type AxisInfo interface {
	// AxisName returns the name of the given joint
	AxisName(joint int) (string, error)

	// JointType returns the classification of the given joint
	JointType(joint int) (JointType, error)
}
