// Package collision settles each tick's occupancy conflicts: cross-team
// mutual destruction, same-team contact reports, and the ghost sweep that
// repairs vehicle/grid inconsistencies by forcing destruction.
package collision

import (
	"github.com/rs/zerolog"

	"github.com/rescuesim/simulator/internal/fleet"
	"github.com/rescuesim/simulator/internal/grid"
	"github.com/rescuesim/simulator/pkg/core"
)

// Result is everything one resolution pass produced.
type Result struct {
	Collisions   []core.CollisionEvent
	SameTeam     []core.SameTeamContact
	Destructions []core.DestructionEvent
}

// Resolver cross-cuts the grid and both fleets once per tick.
type Resolver struct {
	log zerolog.Logger
}

// New builds a resolver.
func New(log zerolog.Logger) *Resolver {
	return &Resolver{log: log}
}

// Resolve runs the full pass in order: cross-team collisions, same-team
// contact detection, the ghost sweep, then grid cleanup. After it returns
// no cell holds a destroyed occupant and no non-base cell holds living
// vehicles of both teams.
func (r *Resolver) Resolve(w *grid.World, fleets [2]*fleet.Fleet, tick int) Result {
	var res Result
	r.crossTeam(w, tick, &res)
	r.sameTeam(w, tick, &res)
	r.ghostSweep(w, fleets, tick, &res)
	w.PruneDestroyed()
	return res
}

// crossTeam destroys every living vehicle on a cell occupied by both
// teams. Both sides die; cargo is lost.
func (r *Resolver) crossTeam(w *grid.World, tick int, res *Result) {
	w.Sweep(func(cell *grid.Cell) {
		var living []*core.Vehicle
		teams := map[core.Team]bool{}
		for _, v := range cell.Vehicles {
			if v.Alive() {
				living = append(living, v)
				teams[v.Team] = true
			}
		}
		if len(teams) < 2 {
			return
		}

		ev := core.CollisionEvent{Tick: tick, Pos: cell.Pos}
		for _, v := range living {
			ev.VehicleIDs = append(ev.VehicleIDs, v.ID)
			res.Destructions = append(res.Destructions, core.DestructionEvent{
				Tick:      tick,
				VehicleID: v.ID,
				Team:      v.Team,
				Pos:       v.Pos,
				Cause:     core.CauseCollision,
				LostValue: v.CargoValue,
			})
			v.Destroy()
			r.log.Info().Str("vehicle", v.ID).Str("team", v.Team.String()).
				Int("row", cell.Pos.Row).Int("col", cell.Pos.Col).
				Msg("vehicle destroyed in collision")
		}
		res.Collisions = append(res.Collisions, ev)
	})
}

// sameTeam reports co-located living teammates outside their base.
// Teammates may legitimately share a cell en route, so nothing is
// destroyed here.
func (r *Resolver) sameTeam(w *grid.World, tick int, res *Result) {
	w.Sweep(func(cell *grid.Cell) {
		if w.IsBase(cell.Pos) {
			return
		}
		byTeam := map[core.Team][]string{}
		for _, v := range cell.Vehicles {
			if v.Alive() {
				byTeam[v.Team] = append(byTeam[v.Team], v.ID)
			}
		}
		for _, team := range []core.Team{core.TeamA, core.TeamB} {
			ids := byTeam[team]
			if len(ids) < 2 {
				continue
			}
			res.SameTeam = append(res.SameTeam, core.SameTeamContact{
				Tick:       tick,
				Team:       team,
				Pos:        cell.Pos,
				VehicleIDs: ids,
			})
		}
	})
}

// ghostSweep verifies every vehicle whose status implies grid presence is
// actually recorded at its position. Base regions are exempt. A mismatch
// is repaired by forcing destruction, which recovers from any upstream
// bug that moved a vehicle without updating the grid.
func (r *Resolver) ghostSweep(w *grid.World, fleets [2]*fleet.Fleet, tick int, res *Result) {
	for _, f := range fleets {
		if f == nil {
			continue
		}
		for _, v := range f.Vehicles {
			if !v.Alive() || !v.OnGrid() || w.IsBase(v.Pos) {
				continue
			}
			if w.HoldsVehicle(v.Pos, v.ID) {
				continue
			}
			res.Destructions = append(res.Destructions, core.DestructionEvent{
				Tick:      tick,
				VehicleID: v.ID,
				Team:      v.Team,
				Pos:       v.Pos,
				Cause:     core.CauseGhost,
				LostValue: v.CargoValue,
			})
			v.Destroy()
			r.log.Warn().Str("vehicle", v.ID).
				Int("row", v.Pos.Row).Int("col", v.Pos.Col).
				Msg("ghost vehicle destroyed")
		}
	}
}
