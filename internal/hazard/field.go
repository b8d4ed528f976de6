// Package hazard owns the mine field. It places hazards without overlap,
// keeps a cell-to-hazard spatial index for O(1) danger queries, and runs
// the activate/relocate cycle of periodic hazards.
package hazard

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/rescuesim/simulator/pkg/core"
)

// ErrPlacementExhausted means no overlap-free position could be found for a
// hazard within the attempt budget. World generation must abort: a partially
// hazarded map would silently violate the no-overlap invariant.
var ErrPlacementExhausted = errors.New("hazard placement exhausted")

const (
	placementMargin   = 2
	placementAttempts = 100
)

// Spec maps hazard kind to how many of that kind to place.
type Spec map[core.HazardKind]int

// DefaultSpec is the stock field composition.
func DefaultSpec() Spec {
	return Spec{
		core.HazardLargeCircle:    2,
		core.HazardSmallCircle:    3,
		core.HazardHorizontalBand: 2,
		core.HazardVerticalBand:   2,
		core.HazardPeriodicCircle: 1,
	}
}

// Field is the hazard collection plus its spatial cache.
type Field struct {
	rows, cols int
	hazards    []*core.Hazard
	byID       map[int]*core.Hazard
	cellIndex  map[core.Position][]int
	nextID     int
	rng        *rand.Rand
	log        zerolog.Logger

	// resourceAt tells relocation whether a cell holds a resource.
	resourceAt func(core.Position) bool
}

// New creates an empty field for a rows×cols grid.
func New(rows, cols int, rng *rand.Rand, log zerolog.Logger) *Field {
	return &Field{
		rows:      rows,
		cols:      cols,
		byID:      make(map[int]*core.Hazard),
		cellIndex: make(map[core.Position][]int),
		nextID:    1,
		rng:       rng,
		log:       log,
	}
}

// SetResourceCheck installs the callback relocation uses to keep periodic
// hazards off resource cells.
func (f *Field) SetResourceCheck(fn func(core.Position) bool) {
	f.resourceAt = fn
}

// HazardByID returns a copy of one hazard.
func (f *Field) HazardByID(id int) (core.Hazard, bool) {
	h, ok := f.byID[id]
	if !ok {
		return core.Hazard{}, false
	}
	return *h, true
}

// Hazards returns a snapshot copy of every hazard.
func (f *Field) Hazards() []core.Hazard {
	out := make([]core.Hazard, len(f.hazards))
	for i, h := range f.hazards {
		out[i] = *h
	}
	return out
}

// Restore replaces the field's contents with a saved hazard set and
// rebuilds the spatial index. Used when resuming from a snapshot.
func (f *Field) Restore(hazards []core.Hazard) {
	f.hazards = f.hazards[:0]
	f.byID = make(map[int]*core.Hazard, len(hazards))
	f.cellIndex = make(map[core.Position][]int)
	f.nextID = 1
	for i := range hazards {
		h := hazards[i]
		f.hazards = append(f.hazards, &h)
		f.byID[h.ID] = &h
		f.indexHazard(&h)
		if h.ID >= f.nextID {
			f.nextID = h.ID + 1
		}
	}
}

// Generate places the requested number of hazards of each kind at random
// legal centers. Candidates whose footprint would touch a reserved cell
// (base regions) or overlap an existing hazard are rejected; after the
// bounded retry budget the whole construction fails.
func (f *Field) Generate(spec Spec, reserved []core.Position) error {
	for _, kind := range []core.HazardKind{
		core.HazardLargeCircle,
		core.HazardSmallCircle,
		core.HazardHorizontalBand,
		core.HazardVerticalBand,
		core.HazardPeriodicCircle,
	} {
		for i := 0; i < spec[kind]; i++ {
			if _, err := f.placeRandom(kind, reserved); err != nil {
				return err
			}
		}
	}
	return nil
}

// placeRandom tries up to placementAttempts random centers for one hazard.
func (f *Field) placeRandom(kind core.HazardKind, reserved []core.Position) (*core.Hazard, error) {
	minRow, maxRow, minCol, maxCol := f.centerRange(kind)

	for attempt := 0; attempt < placementAttempts; attempt++ {
		center := core.Position{
			Row: minRow + f.rng.Intn(maxRow-minRow+1),
			Col: minCol + f.rng.Intn(maxCol-minCol+1),
		}
		candidate := core.NewHazard(f.nextID, kind, center)
		if f.overlapsAny(candidate, 0) || f.touchesAny(candidate, reserved) {
			continue
		}
		h := candidate
		f.hazards = append(f.hazards, &h)
		f.byID[h.ID] = &h
		f.indexHazard(&h)
		f.nextID++
		f.log.Debug().Int("id", h.ID).Str("kind", kind.String()).
			Int("row", center.Row).Int("col", center.Col).
			Msg("hazard placed")
		return &h, nil
	}
	return nil, fmt.Errorf("%s after %d attempts: %w", kind, placementAttempts, ErrPlacementExhausted)
}

// centerRange returns the legal center window for a kind so its geometry
// stays clear of the map edge by the placement margin.
func (f *Field) centerRange(kind core.HazardKind) (minRow, maxRow, minCol, maxCol int) {
	p := core.ParamsFor(kind)
	switch {
	case kind.IsCircle():
		minRow, maxRow = p.Radius+placementMargin, f.rows-1-(p.Radius+placementMargin)
		minCol, maxCol = p.Radius+placementMargin, f.cols-1-(p.Radius+placementMargin)
	case kind == core.HazardHorizontalBand:
		minRow, maxRow = p.HalfWidth+placementMargin, f.rows-1-(p.HalfWidth+placementMargin)
		minCol, maxCol = placementMargin, f.cols-1-placementMargin
	case kind == core.HazardVerticalBand:
		minRow, maxRow = placementMargin, f.rows-1-placementMargin
		minCol, maxCol = p.HalfWidth+placementMargin, f.cols-1-(p.HalfWidth+placementMargin)
	}
	if minRow < 0 {
		minRow = 0
	}
	if minCol < 0 {
		minCol = 0
	}
	if maxRow < minRow {
		maxRow = minRow
	}
	if maxCol < minCol {
		maxCol = minCol
	}
	return minRow, maxRow, minCol, maxCol
}

// touchesAny reports whether the hazard's footprint contains any of the
// given cells.
func (f *Field) touchesAny(h core.Hazard, cells []core.Position) bool {
	for _, fp := range h.Footprint(f.rows, f.cols) {
		for _, p := range cells {
			if fp == p {
				return true
			}
		}
	}
	return false
}

// overlapsAny checks the candidate against every placed hazard, skipping
// the hazard with id skipID (used during relocation).
func (f *Field) overlapsAny(candidate core.Hazard, skipID int) bool {
	for _, existing := range f.hazards {
		if existing.ID == skipID {
			continue
		}
		if overlaps(candidate, *existing) {
			return true
		}
	}
	return false
}

// overlaps runs the shape-pair overlap test. Circle pairs compare squared
// distance against summed radii; circle/band pairs use axis-aligned
// distance checks; band pairs reduce to 1-D interval overlap.
func overlaps(a, b core.Hazard) bool {
	if a.Kind.IsCircle() && b.Kind.IsCircle() {
		dr := a.Center.Row - b.Center.Row
		dc := a.Center.Col - b.Center.Col
		rr := a.Radius + b.Radius
		return dr*dr+dc*dc <= rr*rr
	}
	if a.Kind.IsCircle() {
		return circleBandOverlap(a, b)
	}
	if b.Kind.IsCircle() {
		return circleBandOverlap(b, a)
	}
	return bandBandOverlap(a, b)
}

func circleBandOverlap(circle, band core.Hazard) bool {
	dRow := absInt(circle.Center.Row - band.Center.Row)
	dCol := absInt(circle.Center.Col - band.Center.Col)
	if band.Kind == core.HazardHorizontalBand {
		return dRow <= circle.Radius && dCol <= band.HalfWidth
	}
	return dCol <= circle.Radius && dRow <= band.HalfWidth
}

func bandBandOverlap(a, b core.Hazard) bool {
	dRow := absInt(a.Center.Row - b.Center.Row)
	dCol := absInt(a.Center.Col - b.Center.Col)
	switch {
	case a.Kind == core.HazardHorizontalBand && b.Kind == core.HazardHorizontalBand:
		return dRow <= a.HalfWidth+b.HalfWidth
	case a.Kind == core.HazardVerticalBand && b.Kind == core.HazardVerticalBand:
		return dCol <= a.HalfWidth+b.HalfWidth
	case a.Kind == core.HazardHorizontalBand:
		return dRow <= a.HalfWidth && dCol <= b.HalfWidth
	default:
		return dRow <= b.HalfWidth && dCol <= a.HalfWidth
	}
}

// IsHazardous reports whether any active hazard covers the cell at tick.
// Pure query; amortized O(1) via the spatial cache.
func (f *Field) IsHazardous(pos core.Position, tick int) bool {
	for _, id := range f.cellIndex[pos] {
		if h, ok := f.byID[id]; ok && h.Contains(pos, tick) {
			return true
		}
	}
	return false
}

// HazardsAt returns every hazard whose active area covers the cell at tick.
func (f *Field) HazardsAt(pos core.Position, tick int) []core.Hazard {
	var out []core.Hazard
	for _, id := range f.cellIndex[pos] {
		if h, ok := f.byID[id]; ok && h.Contains(pos, tick) {
			out = append(out, *h)
		}
	}
	return out
}

// Relocation reports a periodic hazard that moved during Advance, so the
// grid can move its center marker along.
type Relocation struct {
	ID   int
	From core.Position
	To   core.Position
}

// Advance flips every periodic hazard whose toggle is due and returns the
// relocations that happened. A hazard about to become dangerous again is
// first relocated to a new overlap-free, resource-free position.
// Relocation never happens while active.
func (f *Field) Advance(tick int) []Relocation {
	var moved []Relocation
	for _, h := range f.hazards {
		if h.Static || h.Period <= 0 || tick < h.NextToggle {
			continue
		}
		if !h.Active {
			from := h.Center
			if f.relocate(h) {
				moved = append(moved, Relocation{ID: h.ID, From: from, To: h.Center})
			}
		}
		h.Active = !h.Active
		h.NextToggle = tick + h.Period
	}
	return moved
}

// relocate moves an inactive periodic hazard to a fresh legal center.
// Failing to find one is non-fatal, the hazard just reactivates in place.
func (f *Field) relocate(h *core.Hazard) bool {
	minRow, maxRow, minCol, maxCol := f.centerRange(h.Kind)

	for attempt := 0; attempt < placementAttempts; attempt++ {
		center := core.Position{
			Row: minRow + f.rng.Intn(maxRow-minRow+1),
			Col: minCol + f.rng.Intn(maxCol-minCol+1),
		}
		candidate := *h
		candidate.Center = center
		if f.overlapsAny(candidate, h.ID) {
			continue
		}
		if f.footprintHasResource(candidate) {
			continue
		}
		f.unindexHazard(h)
		h.Center = center
		f.indexHazard(h)
		f.log.Debug().Int("id", h.ID).
			Int("row", center.Row).Int("col", center.Col).
			Msg("periodic hazard relocated")
		return true
	}
	f.log.Warn().Int("id", h.ID).Msg("no relocation target found, reactivating in place")
	return false
}

func (f *Field) footprintHasResource(h core.Hazard) bool {
	if f.resourceAt == nil {
		return false
	}
	for _, p := range h.Footprint(f.rows, f.cols) {
		if f.resourceAt(p) {
			return true
		}
	}
	return false
}

// FootprintCells returns the union of all hazard footprints, used to keep
// resources off mined ground at world generation.
func (f *Field) FootprintCells() map[core.Position]struct{} {
	out := make(map[core.Position]struct{}, len(f.cellIndex))
	for p := range f.cellIndex {
		out[p] = struct{}{}
	}
	return out
}

func (f *Field) indexHazard(h *core.Hazard) {
	for _, p := range h.Footprint(f.rows, f.cols) {
		f.cellIndex[p] = append(f.cellIndex[p], h.ID)
	}
}

func (f *Field) unindexHazard(h *core.Hazard) {
	for _, p := range h.Footprint(f.rows, f.cols) {
		ids := f.cellIndex[p]
		for i, id := range ids {
			if id == h.ID {
				f.cellIndex[p] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
		if len(f.cellIndex[p]) == 0 {
			delete(f.cellIndex, p)
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
