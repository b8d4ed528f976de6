package hazard

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescuesim/simulator/pkg/core"
)

func newTestField(t *testing.T, rows, cols int, seed int64) *Field {
	t.Helper()
	return New(rows, cols, rand.New(rand.NewSource(seed)), zerolog.Nop())
}

func TestGenerate_DefaultSpecPlacesAll(t *testing.T) {
	f := newTestField(t, 50, 50, 1)
	reserved := []core.Position{{Row: 0, Col: 0}, {Row: 49, Col: 49}}

	require.NoError(t, f.Generate(DefaultSpec(), reserved))

	hazards := f.Hazards()
	assert.Len(t, hazards, 10)

	counts := map[core.HazardKind]int{}
	for _, h := range hazards {
		counts[h.Kind]++
		assert.True(t, h.Active, "hazards start active")
	}
	assert.Equal(t, 2, counts[core.HazardLargeCircle])
	assert.Equal(t, 3, counts[core.HazardSmallCircle])
	assert.Equal(t, 2, counts[core.HazardHorizontalBand])
	assert.Equal(t, 2, counts[core.HazardVerticalBand])
	assert.Equal(t, 1, counts[core.HazardPeriodicCircle])
}

func TestGenerate_NoOverlapBetweenHazards(t *testing.T) {
	f := newTestField(t, 50, 50, 42)
	require.NoError(t, f.Generate(DefaultSpec(), nil))

	hazards := f.Hazards()
	for i := range hazards {
		for j := i + 1; j < len(hazards); j++ {
			assert.False(t, overlaps(hazards[i], hazards[j]),
				"hazard %d and %d overlap", hazards[i].ID, hazards[j].ID)
		}
	}
}

func TestGenerate_AvoidsReservedCells(t *testing.T) {
	f := newTestField(t, 50, 50, 7)
	reserved := []core.Position{{Row: 0, Col: 0}, {Row: 49, Col: 49}}
	require.NoError(t, f.Generate(DefaultSpec(), reserved))

	for _, p := range reserved {
		assert.False(t, f.IsHazardous(p, 0))
	}
}

func TestGenerate_ExhaustsOnTinyGrid(t *testing.T) {
	// Two large circles cannot both fit an 8x8 grid with margin 2.
	f := newTestField(t, 8, 8, 3)
	err := f.Generate(Spec{core.HazardLargeCircle: 2}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPlacementExhausted)
}

func TestOverlaps_CircleCircle(t *testing.T) {
	a := core.NewHazard(1, core.HazardSmallCircle, core.Position{Row: 10, Col: 10})
	b := core.NewHazard(2, core.HazardSmallCircle, core.Position{Row: 10, Col: 14})
	assert.True(t, overlaps(a, b), "distance 4 equals summed radii")

	b.Center = core.Position{Row: 10, Col: 15}
	assert.False(t, overlaps(a, b), "distance 5 exceeds summed radii")
}

func TestOverlaps_CircleBand(t *testing.T) {
	circle := core.NewHazard(1, core.HazardSmallCircle, core.Position{Row: 10, Col: 10})
	band := core.NewHazard(2, core.HazardHorizontalBand, core.Position{Row: 12, Col: 12})
	assert.True(t, overlaps(circle, band))

	band.Center = core.Position{Row: 13, Col: 10}
	assert.False(t, overlaps(circle, band), "row distance 3 exceeds radius 2")

	band.Center = core.Position{Row: 10, Col: 14}
	assert.False(t, overlaps(circle, band), "col distance 4 exceeds half width 3")
}

func TestOverlaps_BandBand(t *testing.T) {
	h1 := core.NewHazard(1, core.HazardHorizontalBand, core.Position{Row: 10, Col: 10})
	h2 := core.NewHazard(2, core.HazardHorizontalBand, core.Position{Row: 16, Col: 30})
	assert.True(t, overlaps(h1, h2), "row distance 6 within summed half widths")

	h2.Center = core.Position{Row: 17, Col: 30}
	assert.False(t, overlaps(h1, h2))

	cross := core.NewHazard(3, core.HazardVerticalBand, core.Position{Row: 12, Col: 11})
	assert.True(t, overlaps(h1, cross), "crossing bands within envelopes")

	cross.Center = core.Position{Row: 14, Col: 11}
	assert.False(t, overlaps(h1, cross), "row distance 4 exceeds horizontal half width")
}

func TestIsHazardous_CircleFootprint(t *testing.T) {
	f := newTestField(t, 30, 30, 1)
	h, err := f.placeRandom(core.HazardLargeCircle, nil)
	require.NoError(t, err)

	assert.True(t, f.IsHazardous(h.Center, 0))
	edge := core.Position{Row: h.Center.Row + 3, Col: h.Center.Col}
	assert.True(t, f.IsHazardous(edge, 0))
	outside := core.Position{Row: h.Center.Row + 4, Col: h.Center.Col}
	assert.False(t, f.IsHazardous(outside, 0))
	diagonal := core.Position{Row: h.Center.Row + 3, Col: h.Center.Col + 1}
	assert.False(t, f.IsHazardous(diagonal, 0), "r=3.16 exceeds radius")
}

func TestIsHazardous_BandIsOneCellThick(t *testing.T) {
	f := newTestField(t, 30, 30, 2)
	h, err := f.placeRandom(core.HazardHorizontalBand, nil)
	require.NoError(t, err)

	assert.True(t, f.IsHazardous(h.Center, 0))
	along := core.Position{Row: h.Center.Row, Col: h.Center.Col + 7}
	assert.True(t, f.IsHazardous(along, 0), "half length 7 along the row")
	beyond := core.Position{Row: h.Center.Row, Col: h.Center.Col + 8}
	assert.False(t, f.IsHazardous(beyond, 0))
	offRow := core.Position{Row: h.Center.Row + 1, Col: h.Center.Col}
	assert.False(t, f.IsHazardous(offRow, 0), "band occupies its center row only")
}

func TestAdvance_PeriodicTogglesAndRelocates(t *testing.T) {
	f := newTestField(t, 40, 40, 5)
	h, err := f.placeRandom(core.HazardPeriodicCircle, nil)
	require.NoError(t, err)
	require.Equal(t, 5, h.Period)
	origin := h.Center

	// Active through ticks 0..4.
	for tick := 0; tick < 5; tick++ {
		f.Advance(tick)
		assert.True(t, f.IsHazardous(origin, tick), "tick %d", tick)
	}

	// Deactivates at tick 5 without moving.
	f.Advance(5)
	assert.False(t, f.IsHazardous(origin, 5))
	assert.Equal(t, origin, f.Hazards()[0].Center, "relocation only on reactivation")

	for tick := 6; tick < 10; tick++ {
		f.Advance(tick)
		assert.False(t, f.IsHazardous(origin, tick))
	}

	// Reactivates at tick 10 at a fresh overlap-free center.
	f.Advance(10)
	moved := f.Hazards()[0]
	assert.True(t, moved.Active)
	assert.True(t, f.IsHazardous(moved.Center, 10))
}

func TestAdvance_ReportsRelocations(t *testing.T) {
	f := newTestField(t, 40, 40, 5)
	h, err := f.placeRandom(core.HazardPeriodicCircle, nil)
	require.NoError(t, err)
	origin := h.Center

	// Nothing moves while active or during the off phase.
	for tick := 0; tick < 10; tick++ {
		assert.Empty(t, f.Advance(tick), "tick %d", tick)
	}

	// Reactivation relocates and reports the move.
	moved := f.Advance(10)
	require.Len(t, moved, 1)
	assert.Equal(t, h.ID, moved[0].ID)
	assert.Equal(t, origin, moved[0].From)
	assert.Equal(t, f.Hazards()[0].Center, moved[0].To)
}

func TestAdvance_RelocationRespectsResources(t *testing.T) {
	f := newTestField(t, 40, 40, 9)
	blocked := map[core.Position]bool{}
	f.SetResourceCheck(func(p core.Position) bool { return blocked[p] })

	h, err := f.placeRandom(core.HazardPeriodicCircle, nil)
	require.NoError(t, err)
	origin := h.Center
	for _, p := range h.Footprint(40, 40) {
		blocked[p] = true
	}

	// Run through one full off cycle, then reactivate.
	for tick := 0; tick <= 10; tick++ {
		f.Advance(tick)
	}
	got := f.Hazards()[0]
	require.True(t, got.Active)
	assert.NotEqual(t, origin, got.Center, "blocked origin forces a move")
	for _, p := range got.Footprint(40, 40) {
		assert.False(t, blocked[p])
	}
}

func TestAdvance_StaticHazardsNeverToggle(t *testing.T) {
	f := newTestField(t, 40, 40, 11)
	h, err := f.placeRandom(core.HazardLargeCircle, nil)
	require.NoError(t, err)

	for tick := 0; tick < 50; tick++ {
		f.Advance(tick)
	}
	assert.True(t, f.IsHazardous(h.Center, 49))
	assert.Equal(t, h.Center, f.Hazards()[0].Center)
}

func TestFootprintCells_CoversIndexedArea(t *testing.T) {
	f := newTestField(t, 30, 30, 13)
	h, err := f.placeRandom(core.HazardSmallCircle, nil)
	require.NoError(t, err)

	cells := f.FootprintCells()
	_, ok := cells[h.Center]
	assert.True(t, ok)
	assert.Equal(t, len(h.Footprint(30, 30)), len(cells))
}
