// Package model defines the database schema for simulation history.
package model

import (
	"database/sql"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rescuesim/simulator/pkg/core"
)

// DatabaseModels lists every struct representing a table in the schema.
var DatabaseModels = []interface{}{
	&Simulation{},
	&TeamResult{},
	&VehicleResult{},
	&SimEvent{},
	&StateSnapshot{},
}

// Simulation is one recorded run.
type Simulation struct {
	gorm.Model
	StartedAt time.Time    `json:"startedAt"`
	EndedAt   sql.NullTime `json:"endedAt"`

	GridRows  int    `json:"gridRows"`
	GridCols  int    `json:"gridCols"`
	Seed      int64  `json:"seed"`
	StrategyA string `json:"strategyA" gorm:"size:32"`
	StrategyB string `json:"strategyB" gorm:"size:32"`

	Ticks  int    `json:"ticks"`
	Winner string `json:"winner" gorm:"size:16"`
	Reason string `json:"reason" gorm:"size:32"`
	ScoreA int    `json:"scoreA"`
	ScoreB int    `json:"scoreB"`

	TeamResults    []TeamResult    `json:"teamResults"`
	VehicleResults []VehicleResult `json:"vehicleResults"`
}

// TeamResult is one team's end-of-run tally.
type TeamResult struct {
	gorm.Model
	SimulationID uint   `json:"simulationId" gorm:"index"`
	Team         string `json:"team" gorm:"size:16"`
	Score        int    `json:"score"`
	Alive        int    `json:"alive"`
	Destroyed    int    `json:"destroyed"`
	JobDone      int    `json:"jobDone"`
}

// VehicleResult is one vehicle's end-of-run tally. Route holds the WKT
// line string of the full trail, empty when the vehicle never moved.
type VehicleResult struct {
	gorm.Model
	SimulationID uint   `json:"simulationId" gorm:"index"`
	VehicleID    string `json:"vehicleId" gorm:"size:64;index"`
	Team         string `json:"team" gorm:"size:16"`
	Category     string `json:"category" gorm:"size:16"`
	Status       string `json:"status" gorm:"size:16"`
	Distance     int    `json:"distance"`
	Delivered    int    `json:"delivered"`
	Destroyed    bool   `json:"destroyed"`
	Route        string `json:"route"`
}

// SimEvent is one tick's structured event list, stored as JSON.
type SimEvent struct {
	gorm.Model
	SimulationID uint           `json:"simulationId" gorm:"index"`
	Tick         int            `json:"tick" gorm:"index"`
	Data         datatypes.JSON `json:"data"`
}

// StateSnapshot is a serialized full-state snapshot, stored as JSON so a
// run can be resumed from any saved tick.
type StateSnapshot struct {
	gorm.Model
	SimulationID uint           `json:"simulationId" gorm:"index"`
	Tick         int            `json:"tick" gorm:"index"`
	Data         datatypes.JSON `json:"data"`
}

// NewSimEvent serializes a tick's events for storage.
func NewSimEvent(simID uint, events core.TickEvents) (SimEvent, error) {
	data, err := json.Marshal(events)
	if err != nil {
		return SimEvent{}, err
	}
	return SimEvent{SimulationID: simID, Tick: events.Tick, Data: data}, nil
}

// NewStateSnapshot serializes a full-state snapshot for storage.
func NewStateSnapshot(simID uint, snap core.TickSnapshot) (StateSnapshot, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return StateSnapshot{}, err
	}
	return StateSnapshot{SimulationID: simID, Tick: snap.Tick, Data: data}, nil
}

// DecodeSnapshot deserializes a stored snapshot back to its core shape.
func (s StateSnapshot) DecodeSnapshot() (core.TickSnapshot, error) {
	var snap core.TickSnapshot
	err := json.Unmarshal(s.Data, &snap)
	return snap, err
}

// ApplySummary folds an end-of-game summary into the simulation row and
// its child records.
func (s *Simulation) ApplySummary(sum core.Summary, routeWKT func(vehicleID string) string) {
	s.Ticks = sum.Ticks
	s.Winner = sum.Winner
	s.Reason = string(sum.Reason)
	s.ScoreA = sum.Teams[0].Score
	s.ScoreB = sum.Teams[1].Score
	s.EndedAt = sql.NullTime{Time: time.Now(), Valid: true}

	s.TeamResults = s.TeamResults[:0]
	for _, ts := range sum.Teams {
		s.TeamResults = append(s.TeamResults, TeamResult{
			Team:      ts.Team.String(),
			Score:     ts.Score,
			Alive:     ts.Alive,
			Destroyed: ts.Destroyed,
			JobDone:   ts.JobDone,
		})
	}

	s.VehicleResults = s.VehicleResults[:0]
	for _, vs := range sum.Vehicles {
		route := vs.RouteWKT
		if route == "" && routeWKT != nil {
			route = routeWKT(vs.VehicleID)
		}
		s.VehicleResults = append(s.VehicleResults, VehicleResult{
			VehicleID: vs.VehicleID,
			Team:      vs.Team.String(),
			Category:  vs.Category.String(),
			Status:    vs.Status.String(),
			Distance:  vs.Distance,
			Delivered: vs.Delivered,
			Destroyed: vs.Destroyed,
			Route:     route,
		})
	}
}
