// Package engine runs the tick loop that drives the whole simulation.
package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/rescuesim/simulator/internal/collision"
	"github.com/rescuesim/simulator/internal/fleet"
	"github.com/rescuesim/simulator/internal/grid"
	"github.com/rescuesim/simulator/internal/hazard"
	"github.com/rescuesim/simulator/internal/path"
	"github.com/rescuesim/simulator/pkg/core"
)

// State is the engine lifecycle state.
type State uint8

const (
	StateStopped State = iota
	StateInit
	StateRunning
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateInit:
		return "init"
	case StateRunning:
		return "running"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// ErrNotRunning is returned by Step when the engine is not in a runnable
// state.
var ErrNotRunning = errors.New("engine not running")

// Options are the opaque construction parameters supplied at init time.
type Options struct {
	Rows, Cols  int
	HazardSpec  hazard.Spec
	Composition fleet.Composition
	Persons     int
	Goods       int
	StallLimit  int
	Seed        int64

	// StrategyA and StrategyB pick each team's search variant.
	StrategyA path.Strategy
	StrategyB path.Strategy
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Rows:        50,
		Cols:        50,
		HazardSpec:  hazard.DefaultSpec(),
		Composition: fleet.DefaultComposition(),
		Persons:     10,
		Goods:       50,
		StallLimit:  500,
		Seed:        1,
		StrategyA:   path.NewBFS(),
		StrategyB:   path.NewDijkstra(),
	}
}

// goodsKinds is the pool random goods are drawn from.
var goodsKinds = []core.ResourceKind{
	core.ResourceClothing,
	core.ResourceFood,
	core.ResourceMedicine,
	core.ResourceAmmunition,
}

// Engine owns the world, both fleets and the tick counter. It is strictly
// single threaded: one tick runs to completion before the next begins.
type Engine struct {
	opts  Options
	state State
	tick  int

	world     *grid.World
	field     *hazard.Field
	fleets    [2]*fleet.Fleet
	resources []*core.Resource
	resolver  *collision.Resolver
	rng       *rand.Rand
	log       zerolog.Logger

	stallTicks int
	lastScores [2]int
	gameOver   *core.GameOverEvent
}

// New creates an engine in the stopped state.
func New(opts Options, log zerolog.Logger) *Engine {
	return &Engine{
		opts:     opts,
		state:    StateStopped,
		resolver: collision.New(log),
		log:      log,
	}
}

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Tick returns the current tick number.
func (e *Engine) Tick() int { return e.tick }

// Fleet returns one team's fleet, nil before Init.
func (e *Engine) Fleet(team core.Team) *fleet.Fleet {
	if e.fleets[0] == nil {
		return nil
	}
	if team == core.TeamA {
		return e.fleets[0]
	}
	return e.fleets[1]
}

// Resources returns the living resource pool.
func (e *Engine) Resources() []*core.Resource { return e.resources }

// World returns the grid arena, nil before Init.
func (e *Engine) World() *grid.World { return e.world }

// Init builds a fresh world: grid, hazard field, resources and both
// fleets. World-construction failures are fatal and abort initialization.
func (e *Engine) Init() error {
	w, err := grid.New(e.opts.Rows, e.opts.Cols, e.log)
	if err != nil {
		return fmt.Errorf("init grid: %w", err)
	}
	e.world = w
	e.rng = rand.New(rand.NewSource(e.opts.Seed))
	e.tick = 0
	e.stallTicks = 0
	e.gameOver = nil

	e.field = hazard.New(e.opts.Rows, e.opts.Cols, e.rng, e.log)
	reserved := []core.Position{w.BaseOf(core.TeamA), w.BaseOf(core.TeamB)}
	if err := e.field.Generate(e.opts.HazardSpec, reserved); err != nil {
		return fmt.Errorf("init hazards: %w", err)
	}
	e.field.SetResourceCheck(func(p core.Position) bool {
		cell := e.world.Get(p)
		return cell != nil && cell.Resource != nil
	})
	for _, h := range e.field.Hazards() {
		hh := h
		if err := e.world.MarkHazard(&hh); err != nil {
			return fmt.Errorf("init hazards: %w", err)
		}
	}

	if err := e.placeResources(); err != nil {
		return fmt.Errorf("init resources: %w", err)
	}

	e.fleets[0] = fleet.New(core.TeamA, w.BaseOf(core.TeamA), e.opts.Composition,
		path.New(e.opts.StrategyA, e.log))
	e.fleets[1] = fleet.New(core.TeamB, w.BaseOf(core.TeamB), e.opts.Composition,
		path.New(e.opts.StrategyB, e.log))
	e.lastScores = [2]int{0, 0}

	e.state = StateInit
	e.log.Info().Int("rows", e.opts.Rows).Int("cols", e.opts.Cols).
		Int("resources", len(e.resources)).
		Str("strategy_a", e.opts.StrategyA.Name()).
		Str("strategy_b", e.opts.StrategyB.Name()).
		Msg("simulation initialized")
	return nil
}

// placeResources scatters persons and goods on free, hazard-free cells.
func (e *Engine) placeResources() error {
	footprint := e.field.FootprintCells()
	free := make([]core.Position, 0, e.opts.Rows*e.opts.Cols)
	for r := 0; r < e.opts.Rows; r++ {
		for c := 0; c < e.opts.Cols; c++ {
			p := core.Position{Row: r, Col: c}
			if e.world.IsBase(p) {
				continue
			}
			if _, mined := footprint[p]; mined {
				continue
			}
			if e.world.Get(p).State != grid.CellEmpty {
				continue
			}
			free = append(free, p)
		}
	}
	total := e.opts.Persons + e.opts.Goods
	if len(free) < total {
		return fmt.Errorf("%d free cells for %d resources: %w",
			len(free), total, grid.ErrPlacementConflict)
	}
	e.rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	e.resources = e.resources[:0]
	id := uint(1)
	place := func(kind core.ResourceKind, pos core.Position) error {
		res := &core.Resource{ID: id, Kind: kind, Points: kind.Points(), Pos: pos}
		if err := e.world.PlaceResource(res); err != nil {
			return err
		}
		e.resources = append(e.resources, res)
		id++
		return nil
	}
	for i := 0; i < e.opts.Persons; i++ {
		if err := place(core.ResourcePerson, free[i]); err != nil {
			return err
		}
	}
	for i := 0; i < e.opts.Goods; i++ {
		kind := goodsKinds[e.rng.Intn(len(goodsKinds))]
		if err := place(kind, free[e.opts.Persons+i]); err != nil {
			return err
		}
	}
	return nil
}

// Start moves an initialized or stopped engine into the running state.
func (e *Engine) Start() error {
	switch e.state {
	case StateInit, StateStopped:
		if e.world == nil {
			return fmt.Errorf("start: %w", ErrNotRunning)
		}
		e.state = StateRunning
		return nil
	case StateRunning:
		return nil
	default:
		return fmt.Errorf("start from %s: %w", e.state, ErrNotRunning)
	}
}

// Stop pauses a running engine. The world is kept; Start resumes it.
func (e *Engine) Stop() {
	if e.state == StateRunning {
		e.state = StateStopped
	}
}

// Step advances exactly one tick and returns its event list.
func (e *Engine) Step() (core.TickEvents, error) {
	if e.state != StateRunning && e.state != StateInit && e.state != StateStopped {
		return core.TickEvents{}, fmt.Errorf("step from %s: %w", e.state, ErrNotRunning)
	}
	if e.world == nil {
		return core.TickEvents{}, fmt.Errorf("step: %w", ErrNotRunning)
	}

	events := core.TickEvents{Tick: e.tick}

	// 1. Hazard field advances; periodic zones may toggle and relocate.
	// Relocated zones take their grid center marker with them.
	for _, move := range e.field.Advance(e.tick) {
		e.world.ClearHazard(move.From)
		if h, ok := e.field.HazardByID(move.ID); ok {
			hh := h
			if err := e.world.MarkHazard(&hh); err != nil {
				e.log.Warn().Err(err).Int("hazard", move.ID).Msg("hazard marker skipped")
			}
		}
	}

	// 2. Vehicles standing inside a now-active hazard are destroyed.
	e.destroyHazardVictims(&events)

	// 3. Each team plans and executes its moves.
	for _, f := range e.fleets {
		e.runFleet(f, &events)
	}

	// 4. Collision resolution and grid cleanup.
	res := e.resolver.Resolve(e.world, e.fleets, e.tick)
	events.Collisions = res.Collisions
	events.SameTeam = res.SameTeam
	events.Destructions = append(events.Destructions, res.Destructions...)

	// 5. Termination.
	if over := e.checkTermination(); over != nil {
		events.GameOver = over
		e.gameOver = over
		e.state = StateGameOver
		e.log.Info().Int("tick", e.tick).Str("reason", string(over.Reason)).
			Str("winner", over.Winner).
			Int("score_a", over.ScoreA).Int("score_b", over.ScoreB).
			Msg("simulation over")
	}

	e.tick++
	return events, nil
}

// Run steps until game over or the tick budget is spent, calling onTick
// after every step. A budget of zero or less means no budget; onTick may
// be nil.
func (e *Engine) Run(maxTicks int, onTick func(core.TickEvents)) error {
	if err := e.Start(); err != nil {
		return err
	}
	for e.state == StateRunning {
		ev, err := e.Step()
		if err != nil {
			return err
		}
		if onTick != nil {
			onTick(ev)
		}
		if maxTicks > 0 && e.tick >= maxTicks {
			e.log.Warn().Int("maxTicks", maxTicks).Msg("tick budget spent, stopping")
			e.Stop()
		}
	}
	return nil
}

// destroyHazardVictims kills every living on-grid vehicle whose cell is
// actively hazardous this tick.
func (e *Engine) destroyHazardVictims(events *core.TickEvents) {
	for _, f := range e.fleets {
		for _, v := range f.Vehicles {
			if !v.Alive() || !v.OnGrid() {
				continue
			}
			if !e.field.IsHazardous(v.Pos, e.tick) {
				continue
			}
			events.Destructions = append(events.Destructions, core.DestructionEvent{
				Tick:      e.tick,
				VehicleID: v.ID,
				Team:      v.Team,
				Pos:       v.Pos,
				Cause:     core.CauseHazard,
				LostValue: v.CargoValue,
			})
			v.Destroy()
			e.log.Info().Str("vehicle", v.ID).
				Int("row", v.Pos.Row).Int("col", v.Pos.Col).
				Msg("vehicle destroyed by hazard")
		}
	}
	e.world.PruneDestroyed()
}

// runFleet plans one team's tick and applies the planned moves, pickups
// and base arrivals. Per-vehicle failures are logged and skipped so one
// bad entity cannot halt the shared tick.
func (e *Engine) runFleet(f *fleet.Fleet, events *core.TickEvents) {
	enemy := e.Fleet(f.Team.Opponent())
	in := path.TickInput{
		Tick:      e.tick,
		Rows:      e.opts.Rows,
		Cols:      e.opts.Cols,
		HomeBase:  f.Base,
		EnemyBase: enemy.Base,
		Fleet:     f.Vehicles,
		Enemy:     enemy.Vehicles,
		Resources: e.resources,
		IsHazard:  func(p core.Position) bool { return e.field.IsHazardous(p, e.tick) },
	}
	moves := f.Planner.Plan(in)

	for _, m := range moves {
		v := f.Vehicle(m.VehicleID)
		if v == nil || !v.Alive() {
			continue
		}
		if err := e.world.PlaceVehicle(v, m.To); err != nil {
			e.log.Warn().Err(err).Str("vehicle", m.VehicleID).Msg("move skipped")
			continue
		}
		e.afterMove(f, v, events)
	}
}

// afterMove handles what the vehicle finds on its new cell: a resource to
// pick up or its own base to deliver at.
func (e *Engine) afterMove(f *fleet.Fleet, v *core.Vehicle, events *core.TickEvents) {
	if cell := e.world.Get(v.Pos); cell != nil && cell.Resource != nil {
		res := cell.Resource
		if v.PickUp(res.Kind, res.Points) {
			e.world.RemoveResource(res)
			e.removeResource(res.ID)
			events.Pickups = append(events.Pickups, core.PickupEvent{
				Tick:       e.tick,
				VehicleID:  v.ID,
				Team:       v.Team,
				ResourceID: res.ID,
				Kind:       res.Kind,
				Points:     res.Points,
				Pos:        v.Pos,
			})
		}
	}

	if v.Pos == f.Base && (v.Status == core.StatusReturning || v.Status == core.StatusNeedReturn) {
		e.world.RemoveVehicle(v)
		delivered := v.ArriveBase()
		if delivered > 0 {
			f.AddScore(delivered)
			events.Deliveries = append(events.Deliveries, core.DeliveryEvent{
				Tick:      e.tick,
				VehicleID: v.ID,
				Team:      v.Team,
				Value:     delivered,
			})
		}
	}
}

// removeResource drops a picked-up resource from the living pool.
func (e *Engine) removeResource(id uint) {
	for i, res := range e.resources {
		if res.ID == id {
			e.resources = append(e.resources[:i], e.resources[i+1:]...)
			return
		}
	}
}

// checkTermination evaluates the end conditions in priority order and
// returns the game-over event, or nil while the run continues.
func (e *Engine) checkTermination() *core.GameOverEvent {
	a, b := e.fleets[0], e.fleets[1]

	reason := core.EndReason("")
	switch {
	case a.AliveCount() == 0 && b.AliveCount() == 0:
		reason = core.EndAllDestroyed
	case a.AllJobDone() && b.AllJobDone():
		reason = core.EndWorkComplete
	case len(e.resources) == 0 && !a.AnyOutsideBase() && !b.AnyOutsideBase() &&
		!a.AnyCarryingCargo() && !b.AnyCarryingCargo():
		reason = core.EndResourcesExhausted
	default:
		if a.Score == e.lastScores[0] && b.Score == e.lastScores[1] {
			e.stallTicks++
		} else {
			e.stallTicks = 0
			e.lastScores = [2]int{a.Score, b.Score}
		}
		if e.stallTicks >= e.opts.StallLimit && len(e.resources) > 0 {
			reason = core.EndStalled
		}
	}
	if reason == "" {
		return nil
	}

	winner := "draw"
	switch {
	case a.Score > b.Score:
		winner = a.Team.String()
	case b.Score > a.Score:
		winner = b.Team.String()
	}
	return &core.GameOverEvent{
		Tick:   e.tick,
		Reason: reason,
		Winner: winner,
		ScoreA: a.Score,
		ScoreB: b.Score,
	}
}

// GameOver returns the terminal event, nil while the run continues.
func (e *Engine) GameOver() *core.GameOverEvent { return e.gameOver }
