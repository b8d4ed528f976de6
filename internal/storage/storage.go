// Package storage defines the history-storage contract and its factory.
package storage

import (
	"github.com/rescuesim/simulator/internal/model"
	"github.com/rescuesim/simulator/pkg/core"
)

// Backend is the interface all history storage implementations satisfy.
// One backend records one simulation at a time.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Run management
	StartSimulation(sim *model.Simulation) error
	EndSimulation(sum core.Summary) error

	// Per-tick recording
	RecordEvents(events core.TickEvents) error
	RecordSnapshot(snap core.TickSnapshot) error

	// History queries
	Simulations() ([]model.Simulation, error)

	// LatestSnapshot returns the most recently recorded full-state
	// snapshot, for resuming. The bool reports whether one exists.
	LatestSnapshot() (core.TickSnapshot, bool, error)
}

// Exportable is an optional interface for backends that produce an
// on-disk artifact when the run ends.
type Exportable interface {
	ExportedFilePath() string
}
