package fleet

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescuesim/simulator/internal/path"
	"github.com/rescuesim/simulator/pkg/core"
)

func newTestFleet(t *testing.T) *Fleet {
	t.Helper()
	planner := path.New(path.NewBFS(), zerolog.Nop())
	return New(core.TeamA, core.Position{Row: 0, Col: 0}, DefaultComposition(), planner)
}

func TestNew_DefaultComposition(t *testing.T) {
	f := newTestFleet(t)

	require.Len(t, f.Vehicles, 10)
	counts := map[core.VehicleCategory]int{}
	for _, v := range f.Vehicles {
		counts[v.Category]++
		assert.Equal(t, core.TeamA, v.Team)
		assert.Equal(t, core.StatusInBase, v.Status)
		assert.Equal(t, f.Base, v.Pos)
	}
	assert.Equal(t, 3, counts[core.CategoryMedium])
	assert.Equal(t, 2, counts[core.CategoryScout])
	assert.Equal(t, 2, counts[core.CategoryHeavy])
	assert.Equal(t, 3, counts[core.CategoryLightCargo])
}

func TestNew_DeterministicIDs(t *testing.T) {
	a := newTestFleet(t)
	b := newTestFleet(t)

	require.Equal(t, len(a.Vehicles), len(b.Vehicles))
	for i := range a.Vehicles {
		assert.Equal(t, a.Vehicles[i].ID, b.Vehicles[i].ID)
	}
	assert.Equal(t, "team_a_medium_1", a.Vehicles[0].ID)
}

func TestVehicle_LookupByID(t *testing.T) {
	f := newTestFleet(t)

	v := f.Vehicle("team_a_scout_2")
	require.NotNil(t, v)
	assert.Equal(t, core.CategoryScout, v.Category)
	assert.Nil(t, f.Vehicle("team_b_medium_1"))
}

func TestAliveCount_AfterDestruction(t *testing.T) {
	f := newTestFleet(t)
	f.Vehicles[0].Destroy()
	f.Vehicles[1].Destroy()

	assert.Equal(t, 8, f.AliveCount())
	assert.Len(t, f.Living(), 8)
	assert.Len(t, f.Vehicles, 10, "roster never shrinks")
}

func TestAllJobDone(t *testing.T) {
	f := newTestFleet(t)
	assert.False(t, f.AllJobDone())

	for _, v := range f.Vehicles {
		v.Status = core.StatusJobDone
	}
	assert.True(t, f.AllJobDone())

	f.Vehicles[0].Status = core.StatusMoving
	assert.False(t, f.AllJobDone())

	f.Vehicles[0].Destroy()
	assert.True(t, f.AllJobDone(), "destroyed vehicles do not count")
}

func TestAnyOutsideBase(t *testing.T) {
	f := newTestFleet(t)
	assert.False(t, f.AnyOutsideBase())

	f.Vehicles[3].Status = core.StatusMoving
	assert.True(t, f.AnyOutsideBase())

	f.Vehicles[3].Destroy()
	assert.False(t, f.AnyOutsideBase())
}

func TestAnyCarryingCargo(t *testing.T) {
	f := newTestFleet(t)
	assert.False(t, f.AnyCarryingCargo())

	f.Vehicles[0].CargoValue = 50
	assert.True(t, f.AnyCarryingCargo())

	f.Vehicles[0].Destroy()
	assert.False(t, f.AnyCarryingCargo(), "destruction zeroes cargo")
}

func TestSnapshot_IsACopy(t *testing.T) {
	f := newTestFleet(t)
	f.AddScore(70)

	snap := f.Snapshot()
	assert.Equal(t, 70, snap.Score)
	require.Len(t, snap.Vehicles, 10)

	snap.Vehicles[0].Status = core.StatusDestroyed
	assert.Equal(t, core.StatusInBase, f.Vehicles[0].Status)
}

func TestStat_Tallies(t *testing.T) {
	f := newTestFleet(t)
	f.AddScore(120)
	f.Vehicles[0].Destroy()
	f.Vehicles[1].Status = core.StatusJobDone

	stat := f.Stat()
	assert.Equal(t, core.TeamA, stat.Team)
	assert.Equal(t, 120, stat.Score)
	assert.Equal(t, 9, stat.Alive)
	assert.Equal(t, 1, stat.Destroyed)
	assert.Equal(t, 1, stat.JobDone)
}
