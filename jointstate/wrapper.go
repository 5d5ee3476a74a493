package jointstate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360/jointstream/component"
	"github.com/c360/jointstream/device"
	"github.com/c360/jointstream/errors"
	"github.com/c360/jointstream/metric"
)

// Publisher is the transport surface the wrapper needs. *natsclient.Client
// satisfies it; tests inject fakes.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// State is the wrapper's domain lifecycle state.
type State int

const (
	// StateClosed means no configuration is loaded and no device is bound
	StateClosed State = iota
	// StateConfigured means configuration is validated but no device is
	// bound yet
	StateConfigured
	// StateBound means a device is bound but the sampling loop has not
	// started
	StateBound
	// StateRunning means the sampling loop is publishing
	StateRunning
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateConfigured:
		return "configured"
	case StateBound:
		return "bound"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Deps carries everything a wrapper instance needs. The embedded
// component.Dependencies supplies the shared transport, metrics registry,
// and logger the same way for every managed component.
type Deps struct {
	// Name identifies the instance in logs and metrics; defaults to the
	// configured nodeName
	Name string

	// Config is the wrapper configuration
	Config Config

	// Publisher overrides the message transport. When nil the NATS client
	// from the embedded dependencies is used; one of the two is required.
	Publisher Publisher

	// Drivers resolves subdevice names; only needed when the
	// configuration names a subdevice
	Drivers *device.Registry

	component.Dependencies
}

// Wrapper samples joint state from a bound device at a fixed period and
// republishes it as structured messages. It implements
// component.LifecycleComponent so the host can manage it uniformly.
type Wrapper struct {
	name      string
	cfg       Config
	publisher Publisher
	drivers   *device.Registry
	registry  *metric.MetricsRegistry
	core      *metric.Metrics
	logger    *slog.Logger

	mu          sync.Mutex
	state       State
	initialized bool
	binding     *device.Binding
	metrics     *wrapperMetrics
	subject     string
	period      time.Duration
	shutdown    chan struct{}
	done        chan struct{}

	running      atomic.Bool
	startTime    time.Time
	published    atomic.Int64
	bytesOut     atomic.Int64
	errorCount   atomic.Int64
	lastError    atomic.Value // string
	lastActivity atomic.Int64 // unix ms
}

// New creates a wrapper in the closed state. Nothing is validated or bound
// until Open.
func New(deps Deps) (*Wrapper, error) {
	publisher := deps.Publisher
	if publisher == nil && deps.NATSClient != nil {
		publisher = deps.NATSClient
	}
	if publisher == nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: publisher", errors.ErrMissingConfig),
			"jointstate", "New", "check dependencies")
	}

	logger := deps.GetLogger()
	name := deps.Name
	if name == "" {
		name = deps.Config.NodeName
	}
	if name != "" {
		logger = logger.With("wrapper", name)
	}

	w := &Wrapper{
		name:      name,
		cfg:       deps.Config,
		publisher: publisher,
		drivers:   deps.Drivers,
		registry:  deps.MetricsRegistry,
		logger:    logger,
		state:     StateClosed,
		startTime: time.Now(),
	}
	if deps.MetricsRegistry != nil {
		w.core = deps.MetricsRegistry.CoreMetrics()
	}
	return w, nil
}

// State returns the current domain lifecycle state
func (w *Wrapper) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Initialize validates the configuration and registers instance metrics.
// Part of component.LifecycleComponent; Open calls it implicitly.
func (w *Wrapper) Initialize() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateClosed {
		return errors.WrapInvalid(
			fmt.Errorf("%w: initialize in state %s", errors.ErrInvalidConfig, w.state),
			"jointstate", "Initialize", "check state")
	}
	return w.initLocked()
}

func (w *Wrapper) initLocked() error {
	if w.initialized {
		return nil
	}
	if err := w.cfg.Validate(); err != nil {
		return err
	}
	w.cfg.applyDefaults()

	if w.name == "" {
		w.name = w.cfg.NodeName
		w.logger = w.logger.With("wrapper", w.name)
	}
	w.subject = w.cfg.Subject()
	w.period = time.Duration(w.cfg.Period * float64(time.Second))

	m, err := newWrapperMetrics(w.registry, w.name)
	if err != nil {
		return errors.Wrap(err, "jointstate", "Initialize", "register metrics")
	}
	w.metrics = m
	w.initialized = true
	return nil
}

// Start begins operation. Part of component.LifecycleComponent.
func (w *Wrapper) Start(ctx context.Context) error {
	return w.Open(ctx)
}

// Open validates configuration and, when a subdevice is configured, opens
// and binds it and starts the sampling loop. Without a subdevice the wrapper
// waits in the configured state for Attach.
//
// Any failure rolls the wrapper back to closed with nothing bound.
func (w *Wrapper) Open(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateClosed {
		return errors.WrapInvalid(
			fmt.Errorf("%w: open in state %s", errors.ErrInvalidConfig, w.state),
			"jointstate", "Open", "check state")
	}
	if err := w.initLocked(); err != nil {
		return err
	}

	w.state = StateConfigured
	w.recordState()
	w.logger.Info("wrapper configured",
		"period", w.period,
		"subject", w.subject,
		"stampSource", string(w.cfg.StampSource))

	if w.cfg.Subdevice == "" {
		w.logger.Info("no subdevice configured, waiting for attach")
		return nil
	}

	if w.drivers == nil {
		w.state = StateClosed
		w.recordState()
		return errors.WrapInvalid(
			fmt.Errorf("%w: subdevice %q configured but no driver registry provided",
				errors.ErrInvalidConfig, w.cfg.Subdevice),
			"jointstate", "Open", "resolve subdevice")
	}

	drv, err := w.drivers.Create(w.cfg.Subdevice, w.cfg.SubdeviceConfig, w.logger)
	if err != nil {
		w.state = StateClosed
		w.recordState()
		return err
	}

	if err := w.bindLocked(ctx, drv, device.OwnedSelf); err != nil {
		_ = drv.Close()
		w.state = StateClosed
		w.recordState()
		return err
	}
	return nil
}

// Attach binds an externally owned device and starts the sampling loop.
// Attaching fails when the wrapper is closed, or when a device is already
// bound (including a configured subdevice).
func (w *Wrapper) Attach(ctx context.Context, dev device.Driver) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateClosed:
		return errors.WrapInvalid(errors.ErrClosed, "jointstate", "Attach", "check state")
	case StateBound, StateRunning:
		return errors.WrapInvalid(errors.ErrAlreadyBound, "jointstate", "Attach", "check state")
	}

	return w.bindLocked(ctx, dev, device.OwnedExternal)
}

// bindLocked binds dev, starts the loop, and moves to running. On failure
// the state is left untouched for the caller to roll back.
func (w *Wrapper) bindLocked(ctx context.Context, dev device.Driver, ownership device.Ownership) error {
	binding, err := device.Bind(dev, ownership, w.logger)
	if err != nil {
		return err
	}
	w.binding = binding
	w.state = StateBound
	w.recordState()
	if w.core != nil {
		w.core.RecordJointsBound(w.name, binding.Joints())
	}

	w.startLoopLocked(ctx, binding)
	w.state = StateRunning
	w.recordState()
	return nil
}

// Detach stops the sampling loop and releases an externally attached device.
// It refuses to detach a self-owned subdevice; closing the wrapper is the
// only way to release those.
func (w *Wrapper) Detach() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.binding == nil {
		return errors.WrapInvalid(errors.ErrNotBound, "jointstate", "Detach", "check binding")
	}
	if w.binding.Owner() == device.OwnedSelf {
		return errors.WrapInvalid(errors.ErrSelfOwned, "jointstate", "Detach", "check ownership")
	}

	w.stopLoopLocked(0)
	if err := w.binding.Unbind(); err != nil {
		w.logger.Warn("unbind reported error on detach", "error", err)
	}
	w.binding = nil
	if w.core != nil {
		w.core.RecordJointsBound(w.name, 0)
	}
	w.state = StateConfigured
	w.recordState()
	w.logger.Info("device detached")
	return nil
}

// Stop shuts the wrapper down, waiting up to timeout for the in-flight
// sampling cycle to finish. Part of component.LifecycleComponent.
func (w *Wrapper) Stop(timeout time.Duration) error {
	return w.closeWithTimeout(timeout)
}

// Close shuts the wrapper down and releases everything. It blocks until the
// in-flight sampling cycle has finished and is safe to call repeatedly; the
// wrapper can be reopened afterwards.
func (w *Wrapper) Close() error {
	return w.closeWithTimeout(0)
}

func (w *Wrapper) closeWithTimeout(timeout time.Duration) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateClosed {
		return nil
	}

	if err := w.stopLoopLocked(timeout); err != nil {
		return err
	}

	if w.binding != nil {
		if err := w.binding.Unbind(); err != nil {
			w.logger.Warn("device close reported error", "error", err)
		}
		w.binding = nil
		if w.core != nil {
			w.core.RecordJointsBound(w.name, 0)
		}
	}

	w.metrics.unregister()
	w.metrics = nil
	w.initialized = false
	w.state = StateClosed
	w.recordState()
	w.logger.Info("wrapper closed")
	return nil
}

// recordState mirrors the domain state into the state gauge
func (w *Wrapper) recordState() {
	if w.core != nil {
		w.core.RecordWrapperState(w.name, int(w.state))
	}
}

// Meta implements component.Discoverable
func (w *Wrapper) Meta() component.Metadata {
	return component.Metadata{
		Name:        w.name,
		Type:        "wrapper",
		Description: "periodic joint-state publisher",
		Version:     "1.0.0",
	}
}

// Health implements component.Discoverable
func (w *Wrapper) Health() component.HealthStatus {
	state := w.State()
	healthy := state == StateRunning || state == StateConfigured

	var lastErr string
	if v := w.lastError.Load(); v != nil {
		lastErr = v.(string)
	}
	h := component.HealthStatus{
		Healthy:    healthy,
		LastCheck:  time.Now(),
		ErrorCount: int(w.errorCount.Load()),
		LastError:  lastErr,
		Uptime:     time.Since(w.startTime),
	}
	if w.core != nil {
		w.core.RecordHealthStatus(w.name, healthy)
	}
	return h
}

// DataFlow implements component.Discoverable
func (w *Wrapper) DataFlow() component.FlowMetrics {
	uptime := time.Since(w.startTime).Seconds()
	if uptime <= 0 {
		uptime = 1
	}
	published := float64(w.published.Load())
	errs := float64(w.errorCount.Load())

	var errorRate float64
	if total := published + errs; total > 0 {
		errorRate = errs / total
	}

	var lastActivity time.Time
	if ms := w.lastActivity.Load(); ms > 0 {
		lastActivity = time.UnixMilli(ms)
	}

	return component.FlowMetrics{
		MessagesPerSecond: published / uptime,
		BytesPerSecond:    float64(w.bytesOut.Load()) / uptime,
		ErrorRate:         errorRate,
		LastActivity:      lastActivity,
	}
}
