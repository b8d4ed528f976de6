// pkg/core/vehicle.go
package core

// VehicleCategory is the closed set of vehicle kinds. Each category has
// fixed capacity, cargo and trip rules looked up via Spec.
type VehicleCategory uint8

const (
	CategoryScout VehicleCategory = iota
	CategoryMedium
	CategoryHeavy
	CategoryLightCargo
)

func (c VehicleCategory) String() string {
	switch c {
	case CategoryScout:
		return "scout"
	case CategoryMedium:
		return "medium"
	case CategoryHeavy:
		return "heavy"
	case CategoryLightCargo:
		return "light_cargo"
	default:
		return "unknown"
	}
}

// CategorySpec is the static capability table entry for a category.
type CategorySpec struct {
	Capacity      int
	MaxTrips      int
	PeopleOnly    bool
	ReturnOnCargo bool
}

// Spec returns the capability table entry for the category.
func (c VehicleCategory) Spec() CategorySpec {
	switch c {
	case CategoryScout:
		return CategorySpec{Capacity: 1, MaxTrips: 1, PeopleOnly: true, ReturnOnCargo: true}
	case CategoryMedium:
		return CategorySpec{Capacity: 4, MaxTrips: 2}
	case CategoryHeavy:
		return CategorySpec{Capacity: 10, MaxTrips: 3}
	case CategoryLightCargo:
		return CategorySpec{Capacity: 4, MaxTrips: 1, ReturnOnCargo: true}
	default:
		return CategorySpec{}
	}
}

// VehicleStatus is the vehicle lifecycle state.
type VehicleStatus uint8

const (
	StatusInBase VehicleStatus = iota
	StatusMoving
	StatusNeedReturn
	StatusReturning
	StatusJobDone
	StatusDestroyed
)

func (s VehicleStatus) String() string {
	switch s {
	case StatusInBase:
		return "in_base"
	case StatusMoving:
		return "moving"
	case StatusNeedReturn:
		return "need_return"
	case StatusReturning:
		return "returning"
	case StatusJobDone:
		return "job_done"
	case StatusDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Vehicle is a fleet member. Vehicles are created at simulation start and
// never removed from the roster; destruction only flips the status.
type Vehicle struct {
	ID       string          `json:"id"`
	Team     Team            `json:"team"`
	Category VehicleCategory `json:"category"`

	Pos      Position      `json:"pos"`
	HomeBase Position      `json:"homeBase"`
	Status   VehicleStatus `json:"status"`

	Remaining      int `json:"remaining"`
	CargoValue     int `json:"cargoValue"`
	TripsSinceBase int `json:"tripsSinceBase"`
	Delivered      int `json:"delivered"`

	Route  []Position `json:"route,omitempty"`
	Target *Position  `json:"target,omitempty"`

	// Trail and Distance accumulate over the whole run for statistics.
	// The trail rides along in snapshots so a resumed run keeps its
	// route history.
	Trail    []Position `json:"trail,omitempty"`
	Distance int        `json:"distance"`
}

// NewVehicle creates a vehicle of the given category parked in its base.
func NewVehicle(id string, team Team, category VehicleCategory, base Position) *Vehicle {
	return &Vehicle{
		ID:        id,
		Team:      team,
		Category:  category,
		Pos:       base,
		HomeBase:  base,
		Status:    StatusInBase,
		Remaining: category.Spec().Capacity,
		Trail:     []Position{base},
	}
}

// Alive reports whether the vehicle has not been destroyed.
func (v *Vehicle) Alive() bool {
	return v.Status != StatusDestroyed
}

// OnGrid reports whether the status implies presence on the grid outside
// the vehicle's base cell.
func (v *Vehicle) OnGrid() bool {
	switch v.Status {
	case StatusMoving, StatusNeedReturn, StatusReturning:
		return true
	default:
		return false
	}
}

// MoveTo updates the position and status. Capacity or trip exhaustion
// forces NeedReturn, otherwise the vehicle is Moving.
func (v *Vehicle) MoveTo(pos Position) {
	if pos != v.Pos {
		v.Distance++
		v.Trail = append(v.Trail, pos)
	}
	v.Pos = pos
	spec := v.Category.Spec()
	if v.Remaining <= 0 || v.TripsSinceBase >= spec.MaxTrips {
		v.Status = StatusNeedReturn
		return
	}
	if v.Status != StatusNeedReturn && v.Status != StatusReturning {
		v.Status = StatusMoving
	}
}

// CanCarry reports whether the category's allowed-cargo set contains kind.
func (v *Vehicle) CanCarry(kind ResourceKind) bool {
	if v.Category.Spec().PeopleOnly {
		return kind.IsPerson()
	}
	return true
}

// PickUp loads one resource unit. It fails without side effects if the
// kind is not allowed or no capacity remains. Reaching zero capacity, the
// trip cap, or picking up goods in a return-on-cargo category forces
// NeedReturn.
func (v *Vehicle) PickUp(kind ResourceKind, value int) bool {
	if !v.CanCarry(kind) || v.Remaining <= 0 {
		return false
	}
	v.Remaining--
	v.CargoValue += value
	v.TripsSinceBase++

	spec := v.Category.Spec()
	switch {
	case v.Remaining == 0,
		v.TripsSinceBase >= spec.MaxTrips,
		!kind.IsPerson() && spec.ReturnOnCargo:
		v.Status = StatusNeedReturn
	}
	return true
}

// ArriveBase resets the vehicle for its next sortie and returns the cargo
// value it delivered. Crediting the team score is the caller's job.
// Calling it twice without movement in between is a no-op the second time.
func (v *Vehicle) ArriveBase() int {
	delivered := v.CargoValue
	v.Delivered += delivered
	v.Status = StatusInBase
	v.Remaining = v.Category.Spec().Capacity
	v.CargoValue = 0
	v.TripsSinceBase = 0
	v.Route = nil
	v.Target = nil
	return delivered
}

// Destroy marks the vehicle destroyed and zeroes undelivered cargo.
func (v *Vehicle) Destroy() {
	v.Status = StatusDestroyed
	v.CargoValue = 0
	v.Route = nil
	v.Target = nil
}
