package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/jointstream/device"
	"github.com/c360/jointstream/device/simarm"
	"github.com/c360/jointstream/jointstate"
	"github.com/c360/jointstream/message"
	"github.com/c360/jointstream/natsclient"
)

// End-to-end: manager starts a simarm-backed wrapper against a real NATS
// server and joint states arrive on the wire. Requires Docker.
func TestIntegration_ManagerEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tc := natsclient.NewTestClient(t)

	drivers := device.NewRegistry()
	require.NoError(t, simarm.Register(drivers))

	cfg := testAppConfig()
	cfg.NATS.URL = tc.URL

	m, err := NewManager(Options{
		Config:         cfg,
		Drivers:        drivers,
		HTTPAddr:       "127.0.0.1:0",
		HealthInterval: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx := context.Background()

	var received atomic.Int64
	var lastPayload atomic.Value
	require.NoError(t, tc.Client.Subscribe(ctx, "head.state", func(_ context.Context, data []byte) {
		cp := make([]byte, len(data))
		copy(cp, data)
		lastPayload.Store(cp)
		received.Add(1)
	}))

	require.NoError(t, m.Start(ctx))
	defer func() { _ = m.Stop(ctx, 5*time.Second) }()

	w, ok := m.Wrapper("head")
	require.True(t, ok)
	assert.Equal(t, jointstate.StateRunning, w.State())

	assert.Eventually(t, func() bool { return received.Load() >= 3 },
		10*time.Second, 20*time.Millisecond)

	_, js, err := message.DecodeJointState(lastPayload.Load().([]byte))
	require.NoError(t, err)
	assert.Equal(t, []string{"joint_0", "joint_1"}, js.Name)
	require.NoError(t, js.Validate())

	// Management endpoint serves health and metrics
	base := fmt.Sprintf("http://%s", m.httpServer.Addr())

	assert.Eventually(t, func() bool {
		resp, err := http.Get(base + "/healthz")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	resp, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "jointstream_sampling_cycles_total")

	resp, err = http.Get(base + "/status")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, m.Stop(ctx, 5*time.Second))

	n := received.Load()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, n, received.Load(), "no publishes after stop")
}
