package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/c360/jointstream/component"
	"github.com/c360/jointstream/config"
	"github.com/c360/jointstream/device"
	"github.com/c360/jointstream/errors"
	"github.com/c360/jointstream/health"
	"github.com/c360/jointstream/jointstate"
	"github.com/c360/jointstream/metric"
	"github.com/c360/jointstream/natsclient"
	"github.com/c360/jointstream/pkg/retry"
)

// DefaultHealthInterval is how often wrapper health is refreshed
const DefaultHealthInterval = 5 * time.Second

// Options configures a Manager
type Options struct {
	// Config is the validated application configuration. Required.
	Config *config.Config

	// Drivers resolves subdevice names for wrappers that own their device
	Drivers *device.Registry

	// Logger is optional; nil falls back to slog.Default()
	Logger *slog.Logger

	// HTTPAddr is the management endpoint listen address
	// (e.g. "127.0.0.1:8080"); empty disables it
	HTTPAddr string

	// HealthInterval overrides DefaultHealthInterval when positive
	HealthInterval time.Duration
}

// Manager assembles and runs the whole process: the shared NATS client, the
// metrics registry, every enabled wrapper, and the management endpoint.
type Manager struct {
	cfg     *config.Config
	drivers *device.Registry
	logger  *slog.Logger

	metrics *metric.MetricsRegistry
	nats    *natsclient.Client
	monitor *health.Monitor

	mu       sync.Mutex
	wrappers map[string]*jointstate.Wrapper
	started  bool

	httpAddr       string
	httpServer     *managementServer
	healthInterval time.Duration
	shutdown       chan struct{}
	healthDone     chan struct{}
}

// NewManager creates a manager from validated configuration
func NewManager(opts Options) (*Manager, error) {
	if opts.Config == nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: config", errors.ErrMissingConfig),
			"service", "NewManager", "check options")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := opts.HealthInterval
	if interval <= 0 {
		interval = DefaultHealthInterval
	}

	registry := metric.NewMetricsRegistry()

	client, err := natsclient.NewClient(opts.Config.NATS.URL,
		append(opts.Config.NATS.ClientOptions(), natsclient.WithMetrics(registry))...)
	if err != nil {
		return nil, errors.Wrap(err, "service", "NewManager", "create nats client")
	}

	return &Manager{
		cfg:            opts.Config,
		drivers:        opts.Drivers,
		logger:         logger,
		metrics:        registry,
		nats:           client,
		monitor:        health.NewMonitor(),
		wrappers:       make(map[string]*jointstate.Wrapper),
		httpAddr:       opts.HTTPAddr,
		healthInterval: interval,
	}, nil
}

// Start connects the transport, opens every enabled wrapper, and brings up
// the management endpoint. A failed wrapper open stops everything already
// started and returns the error.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return errors.WrapInvalid(
			fmt.Errorf("%w: manager already started", errors.ErrInvalidConfig),
			"service", "Start", "check state")
	}

	if err := retry.Do(ctx, retry.DefaultConfig(), func() error {
		return m.nats.Connect(ctx)
	}); err != nil {
		return errors.Wrap(err, "service", "Start", "connect to nats")
	}
	if err := m.nats.WaitForConnection(ctx); err != nil {
		_ = m.nats.Close(ctx)
		return errors.Wrap(err, "service", "Start", "wait for nats")
	}
	m.logger.Info("transport connected", "url", m.nats.URL())

	for _, name := range m.enabledWrapperNames() {
		w, err := m.openWrapper(ctx, name)
		if err != nil {
			m.logger.Error("wrapper failed to open", "wrapper", name, "error", err)
			m.stopAllLocked(ctx, 5*time.Second)
			return err
		}
		m.wrappers[name] = w
	}

	if m.httpAddr != "" {
		srv, err := newManagementServer(m.httpAddr, m)
		if err != nil {
			m.stopAllLocked(ctx, 5*time.Second)
			return err
		}
		m.httpServer = srv
		m.logger.Info("management endpoint listening", "addr", srv.Addr())
	}

	m.shutdown = make(chan struct{})
	m.healthDone = make(chan struct{})
	go m.healthLoop(m.shutdown, m.healthDone)

	m.started = true
	m.logger.Info("manager started", "wrappers", len(m.wrappers))
	return nil
}

func (m *Manager) openWrapper(ctx context.Context, name string) (*jointstate.Wrapper, error) {
	settings, err := m.cfg.WrapperSettings(name)
	if err != nil {
		return nil, err
	}

	w, err := jointstate.New(jointstate.Deps{
		Name:    name,
		Config:  settings,
		Drivers: m.drivers,
		Dependencies: component.Dependencies{
			NATSClient:      m.nats,
			MetricsRegistry: m.metrics,
			Logger:          m.logger,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := w.Open(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// enabledWrapperNames returns enabled instance names in stable order
func (m *Manager) enabledWrapperNames() []string {
	names := make([]string, 0, len(m.cfg.Wrappers))
	for name, wc := range m.cfg.Wrappers {
		if wc.Enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Stop shuts everything down in reverse start order, waiting up to timeout
// per wrapper for in-flight cycles to finish.
func (m *Manager) Stop(ctx context.Context, timeout time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return nil
	}
	m.stopAllLocked(ctx, timeout)
	m.started = false
	m.logger.Info("manager stopped")
	return nil
}

func (m *Manager) stopAllLocked(ctx context.Context, timeout time.Duration) {
	if m.shutdown != nil {
		close(m.shutdown)
		<-m.healthDone
		m.shutdown = nil
		m.healthDone = nil
	}

	if m.httpServer != nil {
		if err := m.httpServer.Close(ctx); err != nil {
			m.logger.Warn("management endpoint close reported error", "error", err)
		}
		m.httpServer = nil
	}

	for name, w := range m.wrappers {
		lc, ok := component.AsLifecycleComponent(w)
		if !ok {
			delete(m.wrappers, name)
			continue
		}
		if err := lc.Stop(timeout); err != nil {
			m.logger.Warn("wrapper stop reported error", "wrapper", name, "error", err)
		}
		delete(m.wrappers, name)
	}

	if err := m.nats.Close(ctx); err != nil {
		m.logger.Warn("nats close reported error", "error", err)
	}
}

// Wrapper returns a running wrapper by name
func (m *Manager) Wrapper(name string) (*jointstate.Wrapper, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wrappers[name]
	return w, ok
}

// Health returns the aggregated process health
func (m *Manager) Health() health.Status {
	return m.monitor.System("jointstream")
}

// Metrics exposes the metrics registry for the management endpoint
func (m *Manager) Metrics() *metric.MetricsRegistry {
	return m.metrics
}

// components snapshots the running wrappers for the status endpoint
func (m *Manager) components() []component.Discoverable {
	m.mu.Lock()
	defer m.mu.Unlock()

	comps := make([]component.Discoverable, 0, len(m.wrappers))
	for _, name := range m.enabledWrapperNames() {
		if w, ok := m.wrappers[name]; ok {
			comps = append(comps, w)
		}
	}
	return comps
}

// healthLoop refreshes the monitor at the configured interval
func (m *Manager) healthLoop(shutdown, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.healthInterval)
	defer ticker.Stop()

	m.refreshHealth()
	for {
		select {
		case <-shutdown:
			return
		case <-ticker.C:
			m.refreshHealth()
		}
	}
}

func (m *Manager) refreshHealth() {
	m.mu.Lock()
	snapshot := make(map[string]*jointstate.Wrapper, len(m.wrappers))
	for name, w := range m.wrappers {
		snapshot[name] = w
	}
	m.mu.Unlock()

	for name, w := range snapshot {
		m.monitor.Update(name, health.FromComponent(name, w.Health()))
	}

	if m.nats.IsHealthy() {
		m.monitor.Update("nats", health.Healthy("nats", ""))
	} else {
		m.monitor.Update("nats", health.Unhealthy("nats",
			fmt.Sprintf("connection %s", m.nats.Status())))
	}
}
