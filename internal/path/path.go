// Package path computes per-tick targets and single-step moves for a fleet.
// Two interchangeable search strategies share one planning protocol.
package path

import (
	"errors"

	"github.com/rescuesim/simulator/pkg/core"
)

// ErrNoPath is returned when search exhausts without reaching the goal.
// Callers fall back to a direct step; this never halts the tick.
var ErrNoPath = errors.New("no path found")

// Env is the read-only search environment for one query. Hazard and
// teammate predicates are evaluated lazily so strategies stay decoupled
// from the grid and hazard packages.
type Env struct {
	Rows, Cols int
	EnemyBase  core.Position

	// IsHazard reports an active hazard on the cell at the query tick.
	IsHazard func(core.Position) bool
	// IsBlocked reports a teammate occupying the cell.
	IsBlocked func(core.Position) bool
}

// passable reports whether search may enter the cell. The enemy base is a
// wall unless it is the literal goal, and a teammate blocks a cell unless
// that cell is the goal itself.
func (e Env) passable(p, goal core.Position) bool {
	if !p.InBounds(e.Rows, e.Cols) {
		return false
	}
	if p == e.EnemyBase && p != goal {
		return false
	}
	if e.IsBlocked != nil && e.IsBlocked(p) && p != goal {
		return false
	}
	return true
}

// Strategy is one shortest-path search variant. FindPath returns the full
// path start..goal inclusive and its cost, or ErrNoPath.
type Strategy interface {
	Name() string
	FindPath(env Env, start, goal core.Position) ([]core.Position, int, error)
}
