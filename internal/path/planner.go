package path

import (
	"github.com/rs/zerolog"

	"github.com/rescuesim/simulator/pkg/core"
)

// PlannedMove is one vehicle's computed next cell for the current tick,
// in fleet order. Tracking these prevents same-team planning collisions.
type PlannedMove struct {
	VehicleID string
	To        core.Position
}

// TickInput is everything one team's planner reads during a tick. All of
// it is consumed read-only except the fleet vehicles, whose Target, Route
// and Status fields the planner owns during planning.
type TickInput struct {
	Tick      int
	Rows      int
	Cols      int
	HomeBase  core.Position
	EnemyBase core.Position

	Fleet     []*core.Vehicle
	Enemy     []*core.Vehicle
	Resources []*core.Resource

	// IsHazard reports an active hazard on a cell at this tick.
	IsHazard func(core.Position) bool
}

// Planner runs the two-phase per-tick protocol for one team: first assign
// every active vehicle a target (claims are first come, first served in
// fleet order), then compute one step per vehicle against the set of moves
// already planned this tick.
type Planner struct {
	strategy Strategy
	log      zerolog.Logger
}

// New builds a planner around a search strategy.
func New(strategy Strategy, log zerolog.Logger) *Planner {
	return &Planner{strategy: strategy, log: log}
}

// Strategy returns the underlying search strategy.
func (p *Planner) Strategy() Strategy { return p.strategy }

// Plan runs both phases and returns the planned moves in fleet order.
// Vehicles that stay put are omitted from the result.
func (p *Planner) Plan(in TickInput) []PlannedMove {
	p.assignTargets(in)
	return p.computeMoves(in)
}

// assignTargets is phase one. Targets claimed by an earlier vehicle this
// tick are excluded from later vehicles' consideration.
func (p *Planner) assignTargets(in TickInput) {
	claimedRes := make(map[uint]bool)
	claimedEnemy := make(map[string]bool)

	for _, v := range in.Fleet {
		if !v.Alive() || v.Status == core.StatusJobDone {
			continue
		}

		// Vehicles that must return target home unconditionally.
		if v.Status == core.StatusNeedReturn || v.Status == core.StatusReturning {
			p.setTarget(in, v, in.HomeBase, core.StatusReturning)
			continue
		}

		if v.Category == core.CategoryScout {
			if enemy := p.nearestEnemyHeavy(in, v, claimedEnemy); enemy != nil {
				claimedEnemy[enemy.ID] = true
				p.setTarget(in, v, enemy.Pos, core.StatusMoving)
				continue
			}
		}

		if res := p.bestResource(in, v, claimedRes); res != nil {
			claimedRes[res.ID] = true
			p.setTarget(in, v, res.Pos, core.StatusMoving)
			continue
		}

		// No viable target.
		switch {
		case v.Status == core.StatusInBase:
			if len(in.Resources) == 0 {
				v.Status = core.StatusJobDone
			}
			v.Target = nil
			v.Route = nil
		default:
			// Stranded in the field with nothing to chase: head home.
			p.setTarget(in, v, in.HomeBase, core.StatusReturning)
		}
	}
}

// setTarget records the target, plans the full route now so phase two and
// cost-based tie-breaks share one search, and applies the status the
// assignment implies. Unreachable targets keep the vehicle in place with
// an empty route; the direct-step fallback covers it in phase two.
func (p *Planner) setTarget(in TickInput, v *core.Vehicle, target core.Position, status core.VehicleStatus) {
	t := target
	v.Target = &t
	v.Status = status

	route, _, err := p.strategy.FindPath(p.envFor(in, v), v.Pos, target)
	if err != nil {
		v.Route = nil
		return
	}
	v.Route = route
}

// envFor builds the search environment for one vehicle. Teammates are soft
// obstacles; the vehicle itself never blocks its own search.
func (p *Planner) envFor(in TickInput, self *core.Vehicle) Env {
	occupied := make(map[core.Position]bool, len(in.Fleet))
	for _, mate := range in.Fleet {
		if mate.ID == self.ID || !mate.Alive() || !mate.OnGrid() {
			continue
		}
		occupied[mate.Pos] = true
	}
	return Env{
		Rows:      in.Rows,
		Cols:      in.Cols,
		EnemyBase: in.EnemyBase,
		IsHazard:  in.IsHazard,
		IsBlocked: func(pos core.Position) bool { return occupied[pos] },
	}
}

// nearestEnemyHeavy finds the unclaimed living enemy heavy with the lowest
// path cost, or nil when none is reachable.
func (p *Planner) nearestEnemyHeavy(in TickInput, v *core.Vehicle, claimed map[string]bool) *core.Vehicle {
	env := p.envFor(in, v)
	var best *core.Vehicle
	bestCost := 0
	for _, e := range in.Enemy {
		if claimed[e.ID] || !e.Alive() || e.Category != core.CategoryHeavy {
			continue
		}
		_, cost, err := p.strategy.FindPath(env, v.Pos, e.Pos)
		if err != nil {
			continue
		}
		if best == nil || cost < bestCost {
			best, bestCost = e, cost
		}
	}
	return best
}

// bestResource finds the unclaimed reachable resource of highest point
// value the vehicle may carry; ties break on lowest path cost.
func (p *Planner) bestResource(in TickInput, v *core.Vehicle, claimed map[uint]bool) *core.Resource {
	env := p.envFor(in, v)
	var best *core.Resource
	bestCost := 0
	for _, res := range in.Resources {
		if claimed[res.ID] || !v.CanCarry(res.Kind) {
			continue
		}
		if best != nil && res.Points < best.Points {
			continue
		}
		_, cost, err := p.strategy.FindPath(env, v.Pos, res.Pos)
		if err != nil {
			continue
		}
		if best == nil || res.Points > best.Points || cost < bestCost {
			best, bestCost = res, cost
		}
	}
	return best
}

// computeMoves is phase two: one step per targeted vehicle, checked
// against the claims of moves already planned this tick.
func (p *Planner) computeMoves(in TickInput) []PlannedMove {
	claims := make(map[core.Position]bool)
	claim := func(pos core.Position) {
		// Base cells are multi-occupant and never claimed.
		if pos != in.HomeBase && pos != in.EnemyBase {
			claims[pos] = true
		}
	}

	var moves []PlannedMove
	for _, v := range in.Fleet {
		if !v.Alive() || !planActive(v) || v.Target == nil {
			if v.Alive() && v.OnGrid() {
				claim(v.Pos)
			}
			continue
		}

		next, ok := p.nextStep(in, v, claims)
		if !ok || next == v.Pos {
			claim(v.Pos)
			continue
		}
		claim(next)
		moves = append(moves, PlannedMove{VehicleID: v.ID, To: next})
	}
	return moves
}

// planActive reports whether the vehicle participates in move planning.
func planActive(v *core.Vehicle) bool {
	switch v.Status {
	case core.StatusInBase, core.StatusMoving, core.StatusNeedReturn, core.StatusReturning:
		return true
	default:
		return false
	}
}

// nextStep picks the vehicle's move: the planned route step when free,
// otherwise the direct-step fallback chain, otherwise stay in place.
func (p *Planner) nextStep(in TickInput, v *core.Vehicle, claims map[core.Position]bool) (core.Position, bool) {
	target := *v.Target
	if v.Pos == target {
		return v.Pos, false
	}

	if len(v.Route) >= 2 && v.Route[0] == v.Pos {
		step := v.Route[1]
		if !claims[step] {
			v.Route = v.Route[1:]
			return step, true
		}
	}

	// Route step blocked or no route: straight-line greedy step first,
	// then the axis-aligned alternates in fixed order.
	if step, ok := p.legalStep(in, greedyStep(v.Pos, target), target, claims); ok {
		v.Route = nil
		return step, true
	}
	for _, alt := range v.Pos.Neighbors4() {
		if step, ok := p.legalStep(in, alt, target, claims); ok {
			v.Route = nil
			return step, true
		}
	}
	return v.Pos, false
}

// legalStep accepts a candidate cell that is in bounds, not actively
// hazardous, unclaimed, and not the enemy base unless targeted.
func (p *Planner) legalStep(in TickInput, step, target core.Position, claims map[core.Position]bool) (core.Position, bool) {
	if !step.InBounds(in.Rows, in.Cols) || claims[step] {
		return core.Position{}, false
	}
	if step == in.EnemyBase && step != target {
		return core.Position{}, false
	}
	if in.IsHazard != nil && in.IsHazard(step) {
		return core.Position{}, false
	}
	return step, true
}

// greedyStep moves one cell along the dominant axis toward the target,
// preferring rows on a tie.
func greedyStep(from, to core.Position) core.Position {
	dr := to.Row - from.Row
	dc := to.Col - from.Col
	if abs(dr) >= abs(dc) && dr != 0 {
		return core.Position{Row: from.Row + sign(dr), Col: from.Col}
	}
	if dc != 0 {
		return core.Position{Row: from.Row, Col: from.Col + sign(dc)}
	}
	return core.Position{Row: from.Row + sign(dr), Col: from.Col}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
