// Package simarm implements a simulated articulated-arm driver used as a
// subdevice in tests, demos, and deployments without hardware.
//
// Joints follow deterministic sinusoidal trajectories; revolute joints report
// positions in degrees as a real motion-control board would, so downstream
// unit conversion is exercised end to end.
package simarm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/c360/jointstream/device"
	"github.com/c360/jointstream/errors"
)

// DriverName is the name the simulated arm registers under
const DriverName = "simarm"

// Config holds the simulated arm settings
type Config struct {
	// Joints is the number of simulated joints (default 2)
	Joints int `json:"joints"`

	// JointPrefix prefixes generated joint names (default "joint")
	JointPrefix string `json:"jointPrefix"`

	// Types optionally classifies each joint ("revolute", "prismatic",
	// "fixed"). Missing entries default to revolute.
	Types []string `json:"types"`

	// AmplitudeDeg is the motion amplitude for revolute joints in degrees
	// (default 45)
	AmplitudeDeg float64 `json:"amplitudeDeg"`

	// FrequencyHz is the trajectory frequency (default 0.5)
	FrequencyHz float64 `json:"frequencyHz"`

	// Torque enables the torque capability (default true). When disabled
	// the driver exposes no torque view at all.
	Torque *bool `json:"torque"`
}

func (c *Config) applyDefaults() {
	if c.Joints == 0 {
		c.Joints = 2
	}
	if c.JointPrefix == "" {
		c.JointPrefix = "joint"
	}
	if c.AmplitudeDeg == 0 {
		c.AmplitudeDeg = 45
	}
	if c.FrequencyHz == 0 {
		c.FrequencyHz = 0.5
	}
}

// Register adds the simulated arm factory to a driver registry
func Register(r *device.Registry) error {
	return r.Register(DriverName, New)
}

// New creates a simulated arm from raw JSON configuration. It satisfies
// device.Factory.
func New(rawConfig json.RawMessage, logger *slog.Logger) (device.Driver, error) {
	cfg := Config{}
	if len(rawConfig) > 0 {
		if err := json.Unmarshal(rawConfig, &cfg); err != nil {
			return nil, errors.WrapInvalid(err, "simarm", "New", "parse config")
		}
	}
	cfg.applyDefaults()

	if cfg.Joints < 0 {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %d", errors.ErrInvalidJointCount, cfg.Joints),
			"simarm", "New", "validate joint count")
	}
	if logger == nil {
		logger = slog.Default()
	}

	types := make([]device.JointType, cfg.Joints)
	for i := range types {
		types[i] = device.JointTypeRevolute
		if i < len(cfg.Types) {
			types[i] = device.ParseJointType(cfg.Types[i])
		}
	}

	arm := &Arm{
		cfg:    cfg,
		types:  types,
		epoch:  time.Now(),
		logger: logger,
	}

	if cfg.Torque != nil && !*cfg.Torque {
		logger.Debug("simulated arm created without torque capability", "joints", cfg.Joints)
		return arm, nil
	}
	return &torqueArm{Arm: arm}, nil
}

// Arm is the simulated driver without the torque view.
type Arm struct {
	cfg    Config
	types  []device.JointType
	epoch  time.Time
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// torqueArm adds the torque view on top of Arm.
type torqueArm struct {
	*Arm
}

// Close shuts down the simulated arm
func (a *Arm) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return errors.ErrClosed
	}
	a.closed = true
	return nil
}

// Axes returns the configured joint count
func (a *Arm) Axes() (int, error) {
	if err := a.checkOpen(); err != nil {
		return 0, err
	}
	return a.cfg.Joints, nil
}

// Positions fills out with the current trajectory positions
func (a *Arm) Positions(out []float64) error {
	if err := a.checkOpen(); err != nil {
		return err
	}
	t := time.Since(a.epoch).Seconds()
	for i := range out {
		out[i] = a.positionAt(i, t)
	}
	return nil
}

// PositionsTimed fills pos with trajectory positions and stamps with the
// acquisition wallclock time in Unix seconds
func (a *Arm) PositionsTimed(pos, stamps []float64) error {
	if err := a.checkOpen(); err != nil {
		return err
	}
	now := time.Now()
	t := now.Sub(a.epoch).Seconds()
	stamp := float64(now.UnixNano()) / float64(time.Second)
	for i := range pos {
		pos[i] = a.positionAt(i, t)
		stamps[i] = stamp
	}
	return nil
}

// Velocities fills out with the analytic trajectory derivatives
func (a *Arm) Velocities(out []float64) error {
	if err := a.checkOpen(); err != nil {
		return err
	}
	t := time.Since(a.epoch).Seconds()
	omega := 2 * math.Pi * a.cfg.FrequencyHz
	for i := range out {
		if a.types[i] == device.JointTypeFixed {
			out[i] = 0
			continue
		}
		out[i] = a.cfg.AmplitudeDeg * omega * math.Cos(omega*t+a.phase(i))
	}
	return nil
}

// AxisName returns the generated name of the given joint
func (a *Arm) AxisName(joint int) (string, error) {
	if err := a.checkJoint(joint); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%d", a.cfg.JointPrefix, joint), nil
}

// JointType returns the configured classification of the given joint
func (a *Arm) JointType(joint int) (device.JointType, error) {
	if err := a.checkJoint(joint); err != nil {
		return device.JointTypeUnknown, err
	}
	return a.types[joint], nil
}

// Torques fills out with a small load proportional to position
func (ta *torqueArm) Torques(out []float64) error {
	if err := ta.checkOpen(); err != nil {
		return err
	}
	t := time.Since(ta.epoch).Seconds()
	for i := range out {
		if ta.types[i] == device.JointTypeFixed {
			out[i] = 0
			continue
		}
		out[i] = 0.1 * ta.positionAt(i, t)
	}
	return nil
}

func (a *Arm) positionAt(joint int, t float64) float64 {
	if a.types[joint] == device.JointTypeFixed {
		return 0
	}
	omega := 2 * math.Pi * a.cfg.FrequencyHz
	return a.cfg.AmplitudeDeg * math.Sin(omega*t+a.phase(joint))
}

// phase staggers joints so trajectories are distinguishable in a plot
func (a *Arm) phase(joint int) float64 {
	return float64(joint) * math.Pi / 8
}

func (a *Arm) checkOpen() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return errors.ErrClosed
	}
	return nil
}

func (a *Arm) checkJoint(joint int) error {
	if err := a.checkOpen(); err != nil {
		return err
	}
	if joint < 0 || joint >= a.cfg.Joints {
		return errors.WrapInvalid(
			fmt.Errorf("joint %d out of range [0,%d)", joint, a.cfg.Joints),
			"simarm", "checkJoint", "validate joint index")
	}
	return nil
}
