// Package fleet holds one team's vehicle roster, score and planner.
package fleet

import (
	"fmt"

	"github.com/rescuesim/simulator/internal/path"
	"github.com/rescuesim/simulator/pkg/core"
)

// Composition maps category to how many vehicles of it a team fields.
type Composition map[core.VehicleCategory]int

// DefaultComposition is the stock per-team lineup.
func DefaultComposition() Composition {
	return Composition{
		core.CategoryMedium:     3,
		core.CategoryScout:      2,
		core.CategoryHeavy:      2,
		core.CategoryLightCargo: 3,
	}
}

// buildOrder fixes the roster order so fleets are deterministic for a
// given composition.
var buildOrder = []core.VehicleCategory{
	core.CategoryMedium,
	core.CategoryScout,
	core.CategoryHeavy,
	core.CategoryLightCargo,
}

// Fleet is one team's roster. Vehicles keep their slot for the whole run;
// destruction flips status but never shrinks the slice.
type Fleet struct {
	Team     core.Team
	Base     core.Position
	Vehicles []*core.Vehicle
	Score    int

	Planner *path.Planner
}

// New builds a fleet parked in its base, one vehicle per composition slot.
func New(team core.Team, base core.Position, comp Composition, planner *path.Planner) *Fleet {
	f := &Fleet{Team: team, Base: base, Planner: planner}
	for _, cat := range buildOrder {
		for i := 0; i < comp[cat]; i++ {
			id := fmt.Sprintf("%s_%s_%d", team, cat, i+1)
			f.Vehicles = append(f.Vehicles, core.NewVehicle(id, team, cat, base))
		}
	}
	return f
}

// Restore rebuilds a fleet from a snapshot, preserving roster order.
func Restore(snap core.FleetSnapshot, planner *path.Planner) *Fleet {
	f := &Fleet{Team: snap.Team, Base: snap.Base, Score: snap.Score, Planner: planner}
	for i := range snap.Vehicles {
		v := snap.Vehicles[i]
		f.Vehicles = append(f.Vehicles, &v)
	}
	return f
}

// Vehicle returns the roster entry with the given id, or nil.
func (f *Fleet) Vehicle(id string) *core.Vehicle {
	for _, v := range f.Vehicles {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// Living returns the non-destroyed vehicles in roster order.
func (f *Fleet) Living() []*core.Vehicle {
	var out []*core.Vehicle
	for _, v := range f.Vehicles {
		if v.Alive() {
			out = append(out, v)
		}
	}
	return out
}

// AliveCount returns how many vehicles are not destroyed.
func (f *Fleet) AliveCount() int {
	n := 0
	for _, v := range f.Vehicles {
		if v.Alive() {
			n++
		}
	}
	return n
}

// AllJobDone reports whether every living vehicle has finished its work.
// A fleet with no living vehicles has nothing left to do.
func (f *Fleet) AllJobDone() bool {
	for _, v := range f.Vehicles {
		if v.Alive() && v.Status != core.StatusJobDone {
			return false
		}
	}
	return true
}

// AnyOutsideBase reports whether a living vehicle is out on the grid.
func (f *Fleet) AnyOutsideBase() bool {
	for _, v := range f.Vehicles {
		if v.Alive() && v.OnGrid() {
			return true
		}
	}
	return false
}

// AnyCarryingCargo reports whether a living vehicle holds undelivered value.
func (f *Fleet) AnyCarryingCargo() bool {
	for _, v := range f.Vehicles {
		if v.Alive() && v.CargoValue > 0 {
			return true
		}
	}
	return false
}

// AddScore credits delivered cargo value to the team.
func (f *Fleet) AddScore(value int) {
	f.Score += value
}

// Snapshot copies the fleet state for presentation and persistence.
func (f *Fleet) Snapshot() core.FleetSnapshot {
	vehicles := make([]core.Vehicle, len(f.Vehicles))
	for i, v := range f.Vehicles {
		vehicles[i] = *v
	}
	return core.FleetSnapshot{
		Team:     f.Team,
		Base:     f.Base,
		Score:    f.Score,
		Vehicles: vehicles,
	}
}

// Stat tallies the fleet for the end-of-game summary.
func (f *Fleet) Stat() core.TeamStat {
	stat := core.TeamStat{Team: f.Team, Score: f.Score}
	for _, v := range f.Vehicles {
		switch {
		case !v.Alive():
			stat.Destroyed++
		case v.Status == core.StatusJobDone:
			stat.Alive++
			stat.JobDone++
		default:
			stat.Alive++
		}
	}
	return stat
}
