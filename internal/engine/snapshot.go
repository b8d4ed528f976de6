package engine

import (
	"fmt"
	"math/rand"

	"github.com/rescuesim/simulator/internal/fleet"
	"github.com/rescuesim/simulator/internal/geo"
	"github.com/rescuesim/simulator/internal/grid"
	"github.com/rescuesim/simulator/internal/hazard"
	"github.com/rescuesim/simulator/internal/path"
	"github.com/rescuesim/simulator/pkg/core"
)

// Snapshot produces the serializable full-state snapshot. Feeding the
// same shape back through Resume continues the run.
func (e *Engine) Snapshot() core.TickSnapshot {
	snap := core.TickSnapshot{
		Tick: e.tick,
		Rows: e.opts.Rows,
		Cols: e.opts.Cols,
	}
	if e.world == nil {
		return snap
	}
	snap.Resources = make([]core.Resource, len(e.resources))
	for i, res := range e.resources {
		snap.Resources[i] = *res
	}
	snap.Hazards = e.field.Hazards()
	snap.Fleets = [2]core.FleetSnapshot{e.fleets[0].Snapshot(), e.fleets[1].Snapshot()}
	return snap
}

// Resume rebuilds the engine from a snapshot and leaves it stopped at the
// saved tick, ready for Start.
func (e *Engine) Resume(snap core.TickSnapshot) error {
	w, err := grid.New(snap.Rows, snap.Cols, e.log)
	if err != nil {
		return fmt.Errorf("resume grid: %w", err)
	}
	e.world = w
	e.opts.Rows = snap.Rows
	e.opts.Cols = snap.Cols
	e.tick = snap.Tick
	e.stallTicks = 0
	e.gameOver = nil
	e.rng = rand.New(rand.NewSource(e.opts.Seed + int64(snap.Tick)))

	e.field = hazard.New(snap.Rows, snap.Cols, e.rng, e.log)
	e.field.Restore(snap.Hazards)
	e.field.SetResourceCheck(func(p core.Position) bool {
		cell := e.world.Get(p)
		return cell != nil && cell.Resource != nil
	})
	for _, h := range e.field.Hazards() {
		hh := h
		if err := e.world.MarkHazard(&hh); err != nil {
			return fmt.Errorf("resume hazards: %w", err)
		}
	}

	e.resources = e.resources[:0]
	for i := range snap.Resources {
		res := snap.Resources[i]
		if err := e.world.PlaceResource(&res); err != nil {
			return fmt.Errorf("resume resources: %w", err)
		}
		e.resources = append(e.resources, &res)
	}

	e.fleets[0] = fleet.Restore(snap.Fleets[0], path.New(e.opts.StrategyA, e.log))
	e.fleets[1] = fleet.Restore(snap.Fleets[1], path.New(e.opts.StrategyB, e.log))
	for _, f := range e.fleets {
		for _, v := range f.Vehicles {
			if !v.Alive() || !v.OnGrid() {
				continue
			}
			if err := e.world.AttachVehicle(v); err != nil {
				return fmt.Errorf("resume vehicles: %w", err)
			}
		}
	}
	e.lastScores = [2]int{e.fleets[0].Score, e.fleets[1].Score}

	e.state = StateStopped
	e.log.Info().Int("tick", e.tick).Msg("simulation resumed from snapshot")
	return nil
}

// Summary tallies the run for history storage. Valid any time after Init;
// the winner fields are filled only once the game is over.
func (e *Engine) Summary() core.Summary {
	sum := core.Summary{Ticks: e.tick}
	if e.fleets[0] == nil {
		return sum
	}
	sum.Teams = [2]core.TeamStat{e.fleets[0].Stat(), e.fleets[1].Stat()}
	if e.gameOver != nil {
		sum.Winner = e.gameOver.Winner
		sum.Reason = e.gameOver.Reason
	}
	for _, f := range e.fleets {
		for _, v := range f.Vehicles {
			sum.Vehicles = append(sum.Vehicles, core.VehicleStat{
				VehicleID: v.ID,
				Team:      v.Team,
				Category:  v.Category,
				Status:    v.Status,
				Distance:  v.Distance,
				Delivered: v.Delivered,
				Destroyed: !v.Alive(),
				RouteWKT:  geo.TrailWKT(v.Trail),
			})
		}
	}
	return sum
}
