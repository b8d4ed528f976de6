package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescuesim/simulator/pkg/core"
)

func TestSimEventRoundTrip(t *testing.T) {
	events := core.TickEvents{
		Tick: 12,
		Deliveries: []core.DeliveryEvent{
			{Tick: 12, VehicleID: "team_a_heavy_1", Team: core.TeamA, Value: 50},
		},
	}

	row, err := NewSimEvent(3, events)
	require.NoError(t, err)
	assert.Equal(t, uint(3), row.SimulationID)
	assert.Equal(t, 12, row.Tick)

	var back core.TickEvents
	require.NoError(t, json.Unmarshal(row.Data, &back))
	assert.Equal(t, events, back)
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap := core.TickSnapshot{
		Tick: 40,
		Rows: 50,
		Cols: 50,
		Resources: []core.Resource{
			{ID: 1, Kind: core.ResourceMedicine, Pos: core.Position{Row: 4, Col: 9}},
		},
	}
	snap.Fleets[0] = core.FleetSnapshot{
		Team: core.TeamA,
		Vehicles: []core.Vehicle{{
			ID:       "team_a_medium_1",
			Trail:    []core.Position{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 1}},
			Distance: 2,
		}},
	}

	row, err := NewStateSnapshot(7, snap)
	require.NoError(t, err)
	assert.Equal(t, 40, row.Tick)

	back, err := row.DecodeSnapshot()
	require.NoError(t, err)
	assert.Equal(t, snap.Tick, back.Tick)
	require.Len(t, back.Resources, 1)
	assert.Equal(t, core.ResourceMedicine, back.Resources[0].Kind)

	// Trails survive the trip so a resumed run keeps its route history.
	require.Len(t, back.Fleets[0].Vehicles, 1)
	assert.Equal(t, snap.Fleets[0].Vehicles[0].Trail, back.Fleets[0].Vehicles[0].Trail)
}

func TestApplySummary(t *testing.T) {
	sim := &Simulation{Seed: 5}
	sum := core.Summary{
		Ticks:  200,
		Winner: "team_b",
		Reason: core.EndWorkComplete,
		Teams: [2]core.TeamStat{
			{Team: core.TeamA, Score: 90, Alive: 8, Destroyed: 2, JobDone: 8},
			{Team: core.TeamB, Score: 150, Alive: 10, JobDone: 10},
		},
		Vehicles: []core.VehicleStat{
			{
				VehicleID: "team_a_scout_1",
				Team:      core.TeamA,
				Category:  core.CategoryScout,
				Status:    core.StatusDestroyed,
				Distance:  44,
				Destroyed: true,
			},
		},
	}

	sim.ApplySummary(sum, func(string) string { return "LINESTRING(0 0,1 1)" })

	assert.Equal(t, 200, sim.Ticks)
	assert.Equal(t, "team_b", sim.Winner)
	assert.Equal(t, "work complete", sim.Reason)
	assert.Equal(t, 90, sim.ScoreA)
	assert.Equal(t, 150, sim.ScoreB)
	assert.True(t, sim.EndedAt.Valid)

	require.Len(t, sim.TeamResults, 2)
	assert.Equal(t, "team_b", sim.TeamResults[1].Team)
	assert.Equal(t, 150, sim.TeamResults[1].Score)

	require.Len(t, sim.VehicleResults, 1)
	vr := sim.VehicleResults[0]
	assert.Equal(t, "team_a_scout_1", vr.VehicleID)
	assert.True(t, vr.Destroyed)
	assert.Equal(t, "LINESTRING(0 0,1 1)", vr.Route)
}

func TestApplySummaryIsIdempotent(t *testing.T) {
	sim := &Simulation{}
	sum := core.Summary{
		Teams:    [2]core.TeamStat{{Team: core.TeamA}, {Team: core.TeamB}},
		Vehicles: []core.VehicleStat{{VehicleID: "team_a_medium_1"}},
	}
	sim.ApplySummary(sum, nil)
	sim.ApplySummary(sum, nil)

	assert.Len(t, sim.TeamResults, 2)
	assert.Len(t, sim.VehicleResults, 1)
}
