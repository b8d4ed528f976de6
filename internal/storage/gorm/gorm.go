// Package gormstorage implements the storage.Backend contract on top of
// any GORM-supported database. The SQLite and Postgres backends embed it
// and add only their connection-specific concerns.
package gormstorage

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/rescuesim/simulator/internal/model"
	"github.com/rescuesim/simulator/internal/queue"
	"github.com/rescuesim/simulator/pkg/core"
)

// ErrNoSimulation is returned when recording starts before StartSimulation.
var ErrNoSimulation = fmt.Errorf("no simulation in progress")

// Dependencies holds everything the backend needs.
type Dependencies struct {
	DB            *gorm.DB
	Log           zerolog.Logger
	FlushInterval time.Duration
}

// Backend buffers per-tick rows in queues and flushes them in batches on
// an interval, keeping the tick loop free of database latency.
type Backend struct {
	db            *gorm.DB
	log           zerolog.Logger
	flushInterval time.Duration

	events    *queue.Queue[model.SimEvent]
	snapshots *queue.Queue[model.StateSnapshot]

	mu  sync.Mutex
	sim *model.Simulation

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a backend around an open database connection.
func New(deps Dependencies) *Backend {
	interval := deps.FlushInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &Backend{
		db:            deps.DB,
		log:           deps.Log,
		flushInterval: interval,
		events:        queue.New[model.SimEvent](),
		snapshots:     queue.New[model.StateSnapshot](),
		stopChan:      make(chan struct{}),
	}
}

// Init migrates the schema and starts the flush worker.
func (b *Backend) Init() error {
	if b.db == nil {
		return fmt.Errorf("no database connection")
	}
	if err := b.db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	b.wg.Add(1)
	go b.flushLoop()
	return nil
}

// Close stops the flush worker and writes whatever is still buffered.
func (b *Backend) Close() error {
	close(b.stopChan)
	b.wg.Wait()
	return b.Flush()
}

// StartSimulation creates the run's row and resets the buffers.
func (b *Backend) StartSimulation(sim *model.Simulation) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sim.StartedAt.IsZero() {
		sim.StartedAt = time.Now()
	}
	if err := b.db.Create(sim).Error; err != nil {
		return fmt.Errorf("create simulation: %w", err)
	}
	b.sim = sim
	b.events.Clear()
	b.snapshots.Clear()
	return nil
}

// EndSimulation flushes the buffers and saves the final tallies.
func (b *Backend) EndSimulation(sum core.Summary) error {
	if err := b.Flush(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sim == nil {
		return ErrNoSimulation
	}
	b.sim.ApplySummary(sum, nil)
	if err := b.db.Session(&gorm.Session{FullSaveAssociations: true}).
		Save(b.sim).Error; err != nil {
		return fmt.Errorf("save simulation: %w", err)
	}
	return nil
}

// RecordEvents buffers one tick's event list. Empty ticks are skipped.
func (b *Backend) RecordEvents(events core.TickEvents) error {
	if events.Empty() {
		return nil
	}
	simID, err := b.simID()
	if err != nil {
		return err
	}
	row, err := model.NewSimEvent(simID, events)
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	b.events.Push(row)
	return nil
}

// RecordSnapshot buffers a full-state snapshot.
func (b *Backend) RecordSnapshot(snap core.TickSnapshot) error {
	simID, err := b.simID()
	if err != nil {
		return err
	}
	row, err := model.NewStateSnapshot(simID, snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	b.snapshots.Push(row)
	return nil
}

// Simulations returns all recorded runs, newest first.
func (b *Backend) Simulations() ([]model.Simulation, error) {
	var sims []model.Simulation
	err := b.db.
		Preload("TeamResults").
		Preload("VehicleResults").
		Order("id DESC").
		Find(&sims).Error
	return sims, err
}

// LatestSnapshot returns the newest stored snapshot across all runs.
func (b *Backend) LatestSnapshot() (core.TickSnapshot, bool, error) {
	if err := b.Flush(); err != nil {
		return core.TickSnapshot{}, false, err
	}
	var row model.StateSnapshot
	err := b.db.Order("simulation_id DESC, tick DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.TickSnapshot{}, false, nil
	}
	if err != nil {
		return core.TickSnapshot{}, false, err
	}
	snap, err := row.DecodeSnapshot()
	if err != nil {
		return core.TickSnapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, true, nil
}

// Flush writes all buffered rows in batches.
func (b *Backend) Flush() error {
	if rows := b.events.Drain(); len(rows) > 0 {
		if err := b.db.CreateInBatches(rows, 500).Error; err != nil {
			return fmt.Errorf("flush events: %w", err)
		}
	}
	if rows := b.snapshots.Drain(); len(rows) > 0 {
		if err := b.db.CreateInBatches(rows, 100).Error; err != nil {
			return fmt.Errorf("flush snapshots: %w", err)
		}
	}
	return nil
}

func (b *Backend) simID() (uint, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sim == nil {
		return 0, ErrNoSimulation
	}
	return b.sim.ID, nil
}

func (b *Backend) flushLoop() {
	defer b.wg.Done()
	ticker := time.NewTicker(b.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if err := b.Flush(); err != nil {
				b.log.Error().Err(err).Msg("storage flush failed")
			}
		}
	}
}
