package path

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescuesim/simulator/pkg/core"
)

func plannerInput(fleet []*core.Vehicle) TickInput {
	return TickInput{
		Rows:      10,
		Cols:      10,
		HomeBase:  core.Position{Row: 0, Col: 0},
		EnemyBase: core.Position{Row: 9, Col: 9},
		Fleet:     fleet,
	}
}

func moveFor(moves []PlannedMove, id string) (core.Position, bool) {
	for _, m := range moves {
		if m.VehicleID == id {
			return m.To, true
		}
	}
	return core.Position{}, false
}

func TestPlan_NeedReturnTargetsHomeUnconditionally(t *testing.T) {
	v := core.NewVehicle("medium_1", core.TeamA, core.CategoryMedium, core.Position{Row: 0, Col: 0})
	v.Pos = core.Position{Row: 3, Col: 3}
	v.Status = core.StatusNeedReturn

	in := plannerInput([]*core.Vehicle{v})
	in.Resources = []*core.Resource{
		{ID: 1, Kind: core.ResourcePerson, Points: 50, Pos: core.Position{Row: 3, Col: 4}},
	}

	moves := New(NewBFS(), zerolog.Nop()).Plan(in)

	require.NotNil(t, v.Target)
	assert.Equal(t, in.HomeBase, *v.Target, "adjacent resource must not distract a returning vehicle")
	assert.Equal(t, core.StatusReturning, v.Status)
	step, ok := moveFor(moves, v.ID)
	require.True(t, ok)
	assert.Equal(t, 1, v.Pos.ManhattanDistance(step))
	assert.Less(t, step.ManhattanDistance(in.HomeBase), v.Pos.ManhattanDistance(in.HomeBase))
}

func TestPlan_HighestValueThenLowestCost(t *testing.T) {
	v := core.NewVehicle("medium_1", core.TeamA, core.CategoryMedium, core.Position{Row: 0, Col: 0})
	in := plannerInput([]*core.Vehicle{v})
	in.Resources = []*core.Resource{
		{ID: 1, Kind: core.ResourceFood, Points: 10, Pos: core.Position{Row: 0, Col: 1}},
		{ID: 2, Kind: core.ResourcePerson, Points: 50, Pos: core.Position{Row: 7, Col: 7}},
		{ID: 3, Kind: core.ResourcePerson, Points: 50, Pos: core.Position{Row: 2, Col: 2}},
	}

	New(NewBFS(), zerolog.Nop()).Plan(in)

	require.NotNil(t, v.Target)
	assert.Equal(t, core.Position{Row: 2, Col: 2}, *v.Target,
		"equal-value tie breaks on path cost")
}

func TestPlan_ClaimedResourceExcluded(t *testing.T) {
	a := core.NewVehicle("medium_1", core.TeamA, core.CategoryMedium, core.Position{Row: 0, Col: 0})
	b := core.NewVehicle("medium_2", core.TeamA, core.CategoryMedium, core.Position{Row: 0, Col: 0})
	in := plannerInput([]*core.Vehicle{a, b})
	in.Resources = []*core.Resource{
		{ID: 1, Kind: core.ResourcePerson, Points: 50, Pos: core.Position{Row: 2, Col: 2}},
		{ID: 2, Kind: core.ResourcePerson, Points: 50, Pos: core.Position{Row: 5, Col: 5}},
	}

	New(NewBFS(), zerolog.Nop()).Plan(in)

	require.NotNil(t, a.Target)
	require.NotNil(t, b.Target)
	assert.Equal(t, core.Position{Row: 2, Col: 2}, *a.Target, "fleet order wins the claim")
	assert.Equal(t, core.Position{Row: 5, Col: 5}, *b.Target)
}

func TestPlan_ScoutHuntsHeavy(t *testing.T) {
	scout := core.NewVehicle("scout_1", core.TeamA, core.CategoryScout, core.Position{Row: 0, Col: 0})
	heavy := core.NewVehicle("heavy_1", core.TeamB, core.CategoryHeavy, core.Position{Row: 9, Col: 9})
	heavy.Pos = core.Position{Row: 4, Col: 4}
	heavy.Status = core.StatusMoving

	in := plannerInput([]*core.Vehicle{scout})
	in.Enemy = []*core.Vehicle{heavy}
	in.Resources = []*core.Resource{
		{ID: 1, Kind: core.ResourcePerson, Points: 50, Pos: core.Position{Row: 1, Col: 1}},
	}

	New(NewBFS(), zerolog.Nop()).Plan(in)

	require.NotNil(t, scout.Target)
	assert.Equal(t, heavy.Pos, *scout.Target, "living enemy heavy outranks resources")
}

func TestPlan_ScoutFallsThroughToPersons(t *testing.T) {
	scout := core.NewVehicle("scout_1", core.TeamA, core.CategoryScout, core.Position{Row: 0, Col: 0})
	in := plannerInput([]*core.Vehicle{scout})
	in.Resources = []*core.Resource{
		{ID: 1, Kind: core.ResourceAmmunition, Points: 50, Pos: core.Position{Row: 1, Col: 1}},
		{ID: 2, Kind: core.ResourcePerson, Points: 50, Pos: core.Position{Row: 3, Col: 3}},
	}

	New(NewBFS(), zerolog.Nop()).Plan(in)

	require.NotNil(t, scout.Target)
	assert.Equal(t, core.Position{Row: 3, Col: 3}, *scout.Target,
		"scouts carry people only, ammunition is not an option")
}

func TestPlan_InBaseNoResourcesBecomesJobDone(t *testing.T) {
	v := core.NewVehicle("medium_1", core.TeamA, core.CategoryMedium, core.Position{Row: 0, Col: 0})
	in := plannerInput([]*core.Vehicle{v})

	moves := New(NewBFS(), zerolog.Nop()).Plan(in)

	assert.Equal(t, core.StatusJobDone, v.Status)
	assert.Nil(t, v.Target)
	assert.Empty(t, moves)
}

func TestPlan_ConflictingStepsFallBack(t *testing.T) {
	// Both vehicles are one step from the contested cell (1,1); the later
	// one must take a different legal cell or hold position.
	a := core.NewVehicle("medium_1", core.TeamA, core.CategoryMedium, core.Position{Row: 0, Col: 0})
	a.Pos = core.Position{Row: 0, Col: 1}
	a.Status = core.StatusMoving
	b := core.NewVehicle("medium_2", core.TeamA, core.CategoryMedium, core.Position{Row: 0, Col: 0})
	b.Pos = core.Position{Row: 1, Col: 0}
	b.Status = core.StatusMoving

	in := plannerInput([]*core.Vehicle{a, b})
	in.Resources = []*core.Resource{
		{ID: 1, Kind: core.ResourcePerson, Points: 50, Pos: core.Position{Row: 2, Col: 2}},
		{ID: 2, Kind: core.ResourcePerson, Points: 50, Pos: core.Position{Row: 2, Col: 3}},
	}

	moves := New(NewBFS(), zerolog.Nop()).Plan(in)

	stepA, okA := moveFor(moves, a.ID)
	stepB, okB := moveFor(moves, b.ID)
	if okA && okB {
		assert.NotEqual(t, stepA, stepB, "planned moves may not share a cell")
	}
}

func TestPlan_StrandedVehicleHeadsHome(t *testing.T) {
	v := core.NewVehicle("medium_1", core.TeamA, core.CategoryMedium, core.Position{Row: 0, Col: 0})
	v.Pos = core.Position{Row: 5, Col: 5}
	v.Status = core.StatusMoving
	v.CargoValue = 50

	in := plannerInput([]*core.Vehicle{v})

	New(NewBFS(), zerolog.Nop()).Plan(in)

	require.NotNil(t, v.Target)
	assert.Equal(t, in.HomeBase, *v.Target)
	assert.Equal(t, core.StatusReturning, v.Status)
}

func TestPlan_DestroyedAndJobDoneIgnored(t *testing.T) {
	dead := core.NewVehicle("medium_1", core.TeamA, core.CategoryMedium, core.Position{Row: 0, Col: 0})
	dead.Destroy()
	done := core.NewVehicle("medium_2", core.TeamA, core.CategoryMedium, core.Position{Row: 0, Col: 0})
	done.Status = core.StatusJobDone

	in := plannerInput([]*core.Vehicle{dead, done})
	in.Resources = []*core.Resource{
		{ID: 1, Kind: core.ResourcePerson, Points: 50, Pos: core.Position{Row: 2, Col: 2}},
	}

	moves := New(NewBFS(), zerolog.Nop()).Plan(in)

	assert.Empty(t, moves)
	assert.Nil(t, dead.Target)
	assert.Nil(t, done.Target)
}
