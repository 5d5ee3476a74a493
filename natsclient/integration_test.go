package natsclient

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests require Docker for the NATS testcontainer.
// They are skipped in -short mode.

func TestIntegration_PublishSubscribe(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tc := NewTestClient(t)
	require.True(t, tc.IsReady())

	ctx := context.Background()

	var mu sync.Mutex
	var received [][]byte

	err := tc.Client.Subscribe(ctx, "device.head.jointstate", func(_ context.Context, data []byte) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, data)
	})
	require.NoError(t, err)

	payload := []byte(`{"name":["neck_pitch"],"position":[0.5]}`)
	require.NoError(t, tc.Client.Publish(ctx, "device.head.jointstate", payload))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, 5*time.Second, 20*time.Millisecond)

	mu.Lock()
	assert.Equal(t, payload, received[0])
	mu.Unlock()
}

func TestIntegration_StatusLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tc := NewTestClient(t)

	assert.Equal(t, StatusConnected, tc.Client.Status())
	assert.True(t, tc.Client.IsHealthy())

	rtt, err := tc.Client.RTT()
	require.NoError(t, err)
	assert.Greater(t, rtt, time.Duration(0))

	require.NoError(t, tc.Client.Close(context.Background()))
	assert.Equal(t, StatusDisconnected, tc.Client.Status())
}
