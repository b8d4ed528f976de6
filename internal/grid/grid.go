// Package grid owns the rows×cols cell arena and is the sole writer of
// cell state. Every other component requests mutation through it.
package grid

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rescuesim/simulator/pkg/core"
)

// ErrInvalidPosition is returned for coordinates outside grid bounds.
var ErrInvalidPosition = errors.New("invalid position")

// ErrPlacementConflict is returned when the expected prior occupant of a
// vehicle's cell cannot be found. Non-fatal; the ghost sweep is the backstop.
var ErrPlacementConflict = errors.New("placement conflict")

// CellState is a cell's tag. The occupant payload must match the tag; base
// cells may additionally hold vehicle occupants.
type CellState uint8

const (
	CellEmpty CellState = iota
	CellResource
	CellHazard
	CellVehicle
	CellBaseA
	CellBaseB
)

func (s CellState) String() string {
	switch s {
	case CellEmpty:
		return "empty"
	case CellResource:
		return "resource"
	case CellHazard:
		return "hazard"
	case CellVehicle:
		return "vehicle"
	case CellBaseA:
		return "base_a"
	case CellBaseB:
		return "base_b"
	default:
		return "unknown"
	}
}

// IsBase reports whether the state is a friendly-base tag.
func (s CellState) IsBase() bool {
	return s == CellBaseA || s == CellBaseB
}

// Cell is one arena slot. Adjacency is arithmetic (±1 row/col); cells hold
// no neighbor references.
type Cell struct {
	Pos      core.Position
	State    CellState
	Resource *core.Resource
	Hazard   *core.Hazard
	Vehicles []*core.Vehicle
}

// World is the grid arena. Bases sit at opposite corners and behave as
// perpetual multi-occupant containers.
type World struct {
	rows, cols int
	cells      []Cell
	baseA      core.Position
	baseB      core.Position
	log        zerolog.Logger
}

// New creates an empty world with bases tagged at opposite corners.
// Dimensions must be positive; a bad size is a fatal construction error.
func New(rows, cols int, log zerolog.Logger) (*World, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("grid dimensions %dx%d: %w", rows, cols, ErrInvalidPosition)
	}
	w := &World{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
		baseA: core.Position{Row: 0, Col: 0},
		baseB: core.Position{Row: rows - 1, Col: cols - 1},
		log:   log,
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			w.cells[r*cols+c].Pos = core.Position{Row: r, Col: c}
		}
	}
	w.cells[w.index(w.baseA)].State = CellBaseA
	w.cells[w.index(w.baseB)].State = CellBaseB
	return w, nil
}

func (w *World) index(p core.Position) int {
	return p.Row*w.cols + p.Col
}

// Rows returns the number of rows.
func (w *World) Rows() int { return w.rows }

// Cols returns the number of columns.
func (w *World) Cols() int { return w.cols }

// BaseOf returns the home-base cell of a team.
func (w *World) BaseOf(team core.Team) core.Position {
	if team == core.TeamA {
		return w.baseA
	}
	return w.baseB
}

// IsBase reports whether the position is any team's base cell.
func (w *World) IsBase(p core.Position) bool {
	return p == w.baseA || p == w.baseB
}

// Get returns the cell at p, or nil if p is out of range.
func (w *World) Get(p core.Position) *Cell {
	if !p.InBounds(w.rows, w.cols) {
		return nil
	}
	return &w.cells[w.index(p)]
}

// SetEmpty clears a cell back to empty. Base cells keep their tag but drop
// every payload.
func (w *World) SetEmpty(p core.Position) error {
	cell := w.Get(p)
	if cell == nil {
		return fmt.Errorf("set empty at %v: %w", p, ErrInvalidPosition)
	}
	cell.Resource = nil
	cell.Hazard = nil
	cell.Vehicles = nil
	if !cell.State.IsBase() {
		cell.State = CellEmpty
	}
	return nil
}

// PlaceResource tags a cell as holding a resource. Base tags are
// perpetual and never overwritten.
func (w *World) PlaceResource(res *core.Resource) error {
	cell := w.Get(res.Pos)
	if cell == nil {
		return fmt.Errorf("place resource at %v: %w", res.Pos, ErrInvalidPosition)
	}
	cell.Resource = res
	if !cell.State.IsBase() {
		cell.State = CellResource
	}
	return nil
}

// RemoveResource clears a picked-up resource from its cell.
func (w *World) RemoveResource(res *core.Resource) {
	cell := w.Get(res.Pos)
	if cell == nil || cell.Resource == nil || cell.Resource.ID != res.ID {
		return
	}
	cell.Resource = nil
	if cell.State == CellResource {
		cell.State = CellEmpty
	}
}

// MarkHazard tags the hazard's center cell. The full danger area lives in
// the hazard field's spatial index, not in cell state.
func (w *World) MarkHazard(h *core.Hazard) error {
	cell := w.Get(h.Center)
	if cell == nil {
		return fmt.Errorf("mark hazard at %v: %w", h.Center, ErrInvalidPosition)
	}
	if cell.State == CellEmpty {
		cell.State = CellHazard
		cell.Hazard = h
	}
	return nil
}

// ClearHazard drops the hazard marker at p, restoring the cell tag from
// the remaining payload. Used when a periodic hazard relocates.
func (w *World) ClearHazard(p core.Position) {
	cell := w.Get(p)
	if cell == nil || cell.Hazard == nil {
		return
	}
	cell.Hazard = nil
	if cell.State == CellHazard {
		cell.State = CellEmpty
	}
}

// VehiclesAt returns the vehicle occupants of a cell, nil when out of range.
func (w *World) VehiclesAt(p core.Position) []*core.Vehicle {
	cell := w.Get(p)
	if cell == nil {
		return nil
	}
	return cell.Vehicles
}

// HoldsVehicle reports whether the cell at p records the given vehicle id.
func (w *World) HoldsVehicle(p core.Position, id string) bool {
	for _, v := range w.VehiclesAt(p) {
		if v.ID == id {
			return true
		}
	}
	return false
}

// PlaceVehicle moves a vehicle to pos, clearing its previous cell only if
// that cell still records the same vehicle id. The destination is written
// even when occupied: transient overlaps last exactly one tick and are the
// collision resolver's to settle. Returns ErrInvalidPosition if pos does
// not exist.
func (w *World) PlaceVehicle(v *core.Vehicle, pos core.Position) error {
	dest := w.Get(pos)
	if dest == nil {
		return fmt.Errorf("place vehicle %s at %v: %w", v.ID, pos, ErrInvalidPosition)
	}

	if prev := w.Get(v.Pos); prev != nil && prev.Pos != pos {
		if !w.detach(prev, v.ID) && prev.State == CellVehicle {
			// Expected occupant missing; leave the cell as-is.
			w.log.Warn().Str("vehicle", v.ID).
				Int("row", v.Pos.Row).Int("col", v.Pos.Col).
				Msg("prior occupant mismatch while moving vehicle")
		}
	}

	if !w.HoldsVehicle(pos, v.ID) {
		dest.Vehicles = append(dest.Vehicles, v)
	}
	if !dest.State.IsBase() {
		dest.State = CellVehicle
	}
	v.MoveTo(pos)
	return nil
}

// AttachVehicle records a vehicle on the cell at its current position
// without touching vehicle state. Used when rebuilding from a snapshot.
func (w *World) AttachVehicle(v *core.Vehicle) error {
	cell := w.Get(v.Pos)
	if cell == nil {
		return fmt.Errorf("attach vehicle %s at %v: %w", v.ID, v.Pos, ErrInvalidPosition)
	}
	if !w.HoldsVehicle(v.Pos, v.ID) {
		cell.Vehicles = append(cell.Vehicles, v)
	}
	if !cell.State.IsBase() {
		cell.State = CellVehicle
	}
	return nil
}

// RemoveVehicle detaches a vehicle from its recorded cell. Base tags are
// never reverted; non-base cells left without occupants become empty.
func (w *World) RemoveVehicle(v *core.Vehicle) bool {
	cell := w.Get(v.Pos)
	if cell == nil {
		return false
	}
	return w.detach(cell, v.ID)
}

// detach removes the id from the cell's occupant list and normalizes the
// tag of a now-vacant non-base cell.
func (w *World) detach(cell *Cell, id string) bool {
	for i, occ := range cell.Vehicles {
		if occ.ID == id {
			cell.Vehicles = append(cell.Vehicles[:i], cell.Vehicles[i+1:]...)
			w.normalize(cell)
			return true
		}
	}
	return false
}

// normalize restores a vacated cell's tag from its remaining payload.
func (w *World) normalize(cell *Cell) {
	if cell.State.IsBase() || len(cell.Vehicles) > 0 {
		return
	}
	switch {
	case cell.Resource != nil:
		cell.State = CellResource
	case cell.Hazard != nil:
		cell.State = CellHazard
	default:
		cell.State = CellEmpty
	}
}

// Sweep calls fn for every cell holding at least one vehicle occupant.
func (w *World) Sweep(fn func(cell *Cell)) {
	for i := range w.cells {
		if len(w.cells[i].Vehicles) > 0 {
			fn(&w.cells[i])
		}
	}
}

// PruneDestroyed clears destroyed occupants from fn's cell in place.
func (w *World) PruneDestroyed() {
	for i := range w.cells {
		cell := &w.cells[i]
		if len(cell.Vehicles) == 0 {
			continue
		}
		living := cell.Vehicles[:0]
		for _, v := range cell.Vehicles {
			if v.Alive() {
				living = append(living, v)
			}
		}
		cell.Vehicles = living
		if len(cell.Vehicles) == 0 {
			cell.Vehicles = nil
			w.normalize(cell)
		}
	}
}
