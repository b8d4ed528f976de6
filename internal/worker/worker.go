// Package worker decouples the tick loop from the observability sinks.
// The engine pushes tick output into queues; a background goroutine drains
// them into storage, metrics and optional InfluxDB telemetry.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rescuesim/simulator/internal/influx"
	"github.com/rescuesim/simulator/internal/metrics"
	"github.com/rescuesim/simulator/internal/queue"
	"github.com/rescuesim/simulator/internal/storage"
	"github.com/rescuesim/simulator/pkg/core"
)

// Dependencies holds all dependencies for the recorder.
type Dependencies struct {
	Backend storage.Backend
	Metrics *metrics.Recorder
	Influx  *influx.Manager // nil disables telemetry
	Log     zerolog.Logger

	// DrainInterval controls how often the queues are flushed to the
	// sinks. Defaults to 250ms.
	DrainInterval time.Duration
}

// Recorder consumes tick output asynchronously.
type Recorder struct {
	deps Dependencies

	events    *queue.Queue[core.TickEvents]
	snapshots *queue.Queue[core.TickSnapshot]

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewRecorder creates a recorder around the given sinks.
func NewRecorder(deps Dependencies) *Recorder {
	if deps.DrainInterval <= 0 {
		deps.DrainInterval = 250 * time.Millisecond
	}
	return &Recorder{
		deps:      deps,
		events:    queue.New[core.TickEvents](),
		snapshots: queue.New[core.TickSnapshot](),
		stopChan:  make(chan struct{}),
	}
}

// Start launches the drain goroutine.
func (r *Recorder) Start() {
	r.wg.Add(1)
	go r.drainLoop()
}

// Stop shuts the drain goroutine down and flushes what remains.
func (r *Recorder) Stop() {
	close(r.stopChan)
	r.wg.Wait()
	r.Drain()
}

// Record enqueues one tick's events.
func (r *Recorder) Record(events core.TickEvents) {
	if events.Empty() {
		return
	}
	r.events.Push(events)
}

// RecordSnapshot enqueues a full-state snapshot.
func (r *Recorder) RecordSnapshot(snap core.TickSnapshot) {
	r.snapshots.Push(snap)
}

// Drain forwards everything queued so far to the sinks.
func (r *Recorder) Drain() {
	ctx := context.Background()

	for _, ev := range r.events.Drain() {
		if r.deps.Metrics != nil {
			r.deps.Metrics.ObserveTick(ev)
		}
		if err := r.deps.Backend.RecordEvents(ev); err != nil {
			r.deps.Log.Error().Err(err).Int("tick", ev.Tick).
				Msg("failed to record tick events")
		}
		if r.deps.Influx != nil {
			if err := r.deps.Influx.WriteTickEvents(ctx, ev); err != nil {
				r.deps.Log.Warn().Err(err).Int("tick", ev.Tick).
					Msg("failed to write tick telemetry")
			}
		}
	}

	for _, snap := range r.snapshots.Drain() {
		if err := r.deps.Backend.RecordSnapshot(snap); err != nil {
			r.deps.Log.Error().Err(err).Int("tick", snap.Tick).
				Msg("failed to record snapshot")
		}
		if r.deps.Influx != nil {
			if err := r.deps.Influx.WriteTickSnapshot(ctx, snap); err != nil {
				r.deps.Log.Warn().Err(err).Int("tick", snap.Tick).
					Msg("failed to write snapshot telemetry")
			}
		}
	}
}

func (r *Recorder) drainLoop() {
	defer r.wg.Done()
	ticker := time.NewTicker(r.deps.DrainInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.Drain()
		}
	}
}
