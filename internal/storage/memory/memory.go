// internal/storage/memory/memory.go
package memory

import (
	"sync"

	"github.com/rescuesim/simulator/internal/config"
	"github.com/rescuesim/simulator/internal/model"
	"github.com/rescuesim/simulator/pkg/core"
)

// Backend keeps the whole run in memory and exports it to JSON when the
// simulation ends. It is the zero-infrastructure backend: no database, no
// external service, one artifact file per run.
type Backend struct {
	cfg config.MemoryConfig

	mu        sync.RWMutex
	sim       *model.Simulation
	events    []core.TickEvents
	snapshots []core.TickSnapshot
	summary   core.Summary

	exportedPath string
}

// New creates a memory backend.
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// StartSimulation begins recording a new run, dropping any previous one.
func (b *Backend) StartSimulation(sim *model.Simulation) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sim = sim
	b.events = nil
	b.snapshots = nil
	b.summary = core.Summary{}
	b.exportedPath = ""
	return nil
}

// EndSimulation finalizes the run and writes the export file.
func (b *Backend) EndSimulation(sum core.Summary) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sim != nil {
		b.sim.ApplySummary(sum, nil)
	}
	b.summary = sum
	return b.exportJSON()
}

// RecordEvents stores one tick's event list. Empty ticks are skipped.
func (b *Backend) RecordEvents(events core.TickEvents) error {
	if events.Empty() {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, events)
	return nil
}

// RecordSnapshot stores a full-state snapshot.
func (b *Backend) RecordSnapshot(snap core.TickSnapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshots = append(b.snapshots, snap)
	return nil
}

// Simulations returns the single run this backend holds.
func (b *Backend) Simulations() ([]model.Simulation, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.sim == nil {
		return nil, nil
	}
	return []model.Simulation{*b.sim}, nil
}

// LatestSnapshot returns the newest snapshot of the current run.
func (b *Backend) LatestSnapshot() (core.TickSnapshot, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.snapshots) == 0 {
		return core.TickSnapshot{}, false, nil
	}
	return b.snapshots[len(b.snapshots)-1], true, nil
}

// ExportedFilePath returns the path of the written export, empty before
// EndSimulation.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.exportedPath
}
