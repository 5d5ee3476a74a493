package jointstate

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/c360/jointstream/device"
	"github.com/c360/jointstream/errors"
	"github.com/c360/jointstream/message"
	"github.com/c360/jointstream/pkg/timestamp"
)

const degToRad = math.Pi / 180

// startLoopLocked spawns the sampling goroutine. Caller holds w.mu.
func (w *Wrapper) startLoopLocked(ctx context.Context, binding *device.Binding) {
	w.shutdown = make(chan struct{})
	w.done = make(chan struct{})
	w.running.Store(true)
	go w.run(ctx, binding, w.subject, w.shutdown, w.done)
}

// stopLoopLocked signals the loop and waits for the in-flight cycle to
// finish. A non-positive timeout waits indefinitely. Caller holds w.mu; the
// loop never takes it, so waiting here cannot deadlock.
//
// The shutdown channel is nilled out as soon as it is closed so that a
// retried stop after a join timeout only re-waits, never re-closes.
func (w *Wrapper) stopLoopLocked(timeout time.Duration) error {
	if w.done == nil {
		return nil
	}
	if w.shutdown != nil {
		close(w.shutdown)
		w.shutdown = nil
	}

	if timeout <= 0 {
		<-w.done
	} else {
		select {
		case <-w.done:
		case <-time.After(timeout):
			return errors.WrapTransient(
				fmt.Errorf("sampling loop did not stop within %s", timeout),
				"jointstate", "Stop", "join sampling loop")
		}
	}
	w.done = nil
	return nil
}

// run is the sampling loop. It owns the binding's sample buffers for its
// whole lifetime; nobody else touches them while the loop is live. Ticks
// that arrive while a cycle is still executing coalesce, so overruns delay
// individual samples but never queue up work.
func (w *Wrapper) run(ctx context.Context, binding *device.Binding, subject string, shutdown, done chan struct{}) {
	defer close(done)
	defer w.running.Store(false)

	ticker := time.NewTicker(w.period)
	defer ticker.Stop()

	w.logger.Info("sampling loop started", "period", w.period, "subject", subject)

	for {
		select {
		case <-shutdown:
			w.logger.Info("sampling loop stopped")
			return
		case <-ctx.Done():
			w.logger.Info("sampling loop stopped", "reason", ctx.Err())
			return
		case <-ticker.C:
			w.sampleCycle(ctx, binding, subject)
		}
	}
}

// sampleCycle runs one read-convert-publish pass. Read and publish failures
// degrade the cycle, never the loop: a failed read leaves the previous
// sample in the buffer and the message is published anyway, a failed publish
// drops the sample.
func (w *Wrapper) sampleCycle(ctx context.Context, binding *device.Binding, subject string) {
	start := time.Now()

	if err := binding.ReadPositionsTimed(); err != nil {
		w.readError("encoders", err)
	}
	if err := binding.ReadVelocities(); err != nil {
		w.readError("velocity", err)
	}
	if err := binding.ReadTorques(); err != nil {
		w.readError("torque", err)
	}

	js := w.buildSample(binding)
	env := message.NewEnvelope(js, w.name)

	data, err := json.Marshal(env)
	if err != nil {
		w.errorCount.Add(1)
		w.lastError.Store(err.Error())
		w.logger.Error("encode failed, sample dropped", "error", err)
		return
	}

	pubStart := time.Now()
	if err := w.publisher.Publish(ctx, subject, data); err != nil {
		w.errorCount.Add(1)
		w.lastError.Store(err.Error())
		if w.core != nil {
			w.core.RecordSampleDropped(w.name)
		}
		w.logger.Warn("publish failed, sample dropped", "subject", subject, "error", err)
	} else {
		w.published.Add(1)
		w.bytesOut.Add(int64(len(data)))
		w.lastActivity.Store(timestamp.Now())
		w.metrics.recordPublish(len(data), time.Since(pubStart).Seconds(), timestamp.ToSeconds(js.Stamp))
	}

	if w.core != nil {
		w.core.RecordSampleCycle(w.name)
		w.core.RecordCycleDuration(w.name, time.Since(start))
	}
}

func (w *Wrapper) readError(capability string, err error) {
	w.errorCount.Add(1)
	w.lastError.Store(err.Error())
	if w.core != nil {
		w.core.RecordReadError(w.name, capability)
	}
	w.logger.Warn("device read failed, republishing previous sample",
		"capability", capability, "error", err)
}

// buildSample converts the binding's raw buffers into an outgoing message.
// Revolute joints report degrees and are converted to radians (positions and
// velocities); other joint types pass through. The message is built fresh so
// the raw buffers stay in native units across cycles.
func (w *Wrapper) buildSample(binding *device.Binding) *message.JointState {
	n := binding.Joints()
	js := &message.JointState{
		Name:        binding.Names(),
		Position:    make([]float64, n),
		Velocity:    make([]float64, n),
		Effort:      make([]float64, n),
		StampSource: string(w.cfg.StampSource),
	}

	positions := binding.Positions()
	velocities := binding.Velocities()
	types := binding.Types()
	for i := 0; i < n; i++ {
		if types[i] == device.JointTypeRevolute {
			js.Position[i] = positions[i] * degToRad
			js.Velocity[i] = velocities[i] * degToRad
		} else {
			js.Position[i] = positions[i]
			js.Velocity[i] = velocities[i]
		}
	}
	copy(js.Effort, binding.Efforts())

	switch w.cfg.StampSource {
	case StampWallclock:
		js.Stamp = timestamp.Now()
	default:
		js.Stamp = timestamp.FromSeconds(timestamp.MeanSeconds(binding.Stamps()))
	}
	return js
}
