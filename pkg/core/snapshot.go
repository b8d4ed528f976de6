// pkg/core/snapshot.go
package core

// FleetSnapshot is one team's state inside a TickSnapshot.
type FleetSnapshot struct {
	Team     Team      `json:"team"`
	Base     Position  `json:"base"`
	Score    int       `json:"score"`
	Vehicles []Vehicle `json:"vehicles"`
}

// TickSnapshot is the read-only full-state snapshot produced on demand for
// the presentation and persistence layers. Supplying the same shape back
// resumes a simulation.
type TickSnapshot struct {
	Tick      int             `json:"tick"`
	Rows      int             `json:"rows"`
	Cols      int             `json:"cols"`
	Resources []Resource      `json:"resources"`
	Hazards   []Hazard        `json:"hazards"`
	Fleets    [2]FleetSnapshot `json:"fleets"`
}

// VehicleStat is the per-vehicle tally inside a Summary.
type VehicleStat struct {
	VehicleID string          `json:"vehicleId"`
	Team      Team            `json:"team"`
	Category  VehicleCategory `json:"category"`
	Status    VehicleStatus   `json:"status"`
	Distance  int             `json:"distance"`
	Delivered int             `json:"delivered"`
	Destroyed bool            `json:"destroyed"`
	RouteWKT  string          `json:"routeWkt,omitempty"`
}

// TeamStat is the per-team tally inside a Summary.
type TeamStat struct {
	Team      Team `json:"team"`
	Score     int  `json:"score"`
	Alive     int  `json:"alive"`
	Destroyed int  `json:"destroyed"`
	JobDone   int  `json:"jobDone"`
}

// Summary is the end-of-game record handed to history storage.
type Summary struct {
	Ticks    int           `json:"ticks"`
	Winner   string        `json:"winner"` // team name or "draw"
	Reason   EndReason     `json:"reason"`
	Teams    [2]TeamStat   `json:"teams"`
	Vehicles []VehicleStat `json:"vehicles"`
}
