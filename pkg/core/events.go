// pkg/core/events.go
package core

// EndReason explains why a simulation terminated.
type EndReason string

const (
	EndAllDestroyed       EndReason = "all destroyed"
	EndWorkComplete       EndReason = "work complete"
	EndResourcesExhausted EndReason = "resources exhausted"
	EndStalled            EndReason = "stalled"
)

// CollisionEvent is a cross-team co-location that destroyed every living
// vehicle of both teams at the cell.
type CollisionEvent struct {
	Tick       int      `json:"tick"`
	Pos        Position `json:"pos"`
	VehicleIDs []string `json:"vehicleIds"`
}

// SameTeamContact is a reported (non-destructive) teammate co-location.
type SameTeamContact struct {
	Tick       int      `json:"tick"`
	Team       Team     `json:"team"`
	Pos        Position `json:"pos"`
	VehicleIDs []string `json:"vehicleIds"`
}

// DestructionCause classifies what destroyed a vehicle.
type DestructionCause string

const (
	CauseCollision DestructionCause = "collision"
	CauseHazard    DestructionCause = "hazard"
	CauseGhost     DestructionCause = "ghost"
)

// DestructionEvent records one vehicle being destroyed.
type DestructionEvent struct {
	Tick      int              `json:"tick"`
	VehicleID string           `json:"vehicleId"`
	Team      Team             `json:"team"`
	Pos       Position         `json:"pos"`
	Cause     DestructionCause `json:"cause"`
	LostValue int              `json:"lostValue"`
}

// PickupEvent records a vehicle collecting a resource.
type PickupEvent struct {
	Tick       int          `json:"tick"`
	VehicleID  string       `json:"vehicleId"`
	Team       Team         `json:"team"`
	ResourceID uint         `json:"resourceId"`
	Kind       ResourceKind `json:"kind"`
	Points     int          `json:"points"`
	Pos        Position     `json:"pos"`
}

// DeliveryEvent records a vehicle depositing cargo at its base.
type DeliveryEvent struct {
	Tick      int    `json:"tick"`
	VehicleID string `json:"vehicleId"`
	Team      Team   `json:"team"`
	Value     int    `json:"value"`
}

// GameOverEvent terminates the run.
type GameOverEvent struct {
	Tick   int       `json:"tick"`
	Reason EndReason `json:"reason"`
	Winner string    `json:"winner"` // team name or "draw"
	ScoreA int       `json:"scoreA"`
	ScoreB int       `json:"scoreB"`
}

// TickEvents is the structured event list one tick produces. The engine
// returns it instead of tracing; observability layers consume it.
type TickEvents struct {
	Tick         int                `json:"tick"`
	Collisions   []CollisionEvent   `json:"collisions,omitempty"`
	SameTeam     []SameTeamContact  `json:"sameTeam,omitempty"`
	Destructions []DestructionEvent `json:"destructions,omitempty"`
	Pickups      []PickupEvent      `json:"pickups,omitempty"`
	Deliveries   []DeliveryEvent    `json:"deliveries,omitempty"`
	GameOver     *GameOverEvent     `json:"gameOver,omitempty"`
}

// Empty reports whether the tick produced no events at all.
func (e *TickEvents) Empty() bool {
	return len(e.Collisions) == 0 && len(e.SameTeam) == 0 &&
		len(e.Destructions) == 0 && len(e.Pickups) == 0 &&
		len(e.Deliveries) == 0 && e.GameOver == nil
}
