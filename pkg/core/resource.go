// pkg/core/resource.go
package core

// ResourceKind is the closed set of collectible resource kinds.
type ResourceKind uint8

const (
	ResourcePerson ResourceKind = iota
	ResourceClothing
	ResourceFood
	ResourceMedicine
	ResourceAmmunition
)

// Points returns the score value of one unit of this kind.
func (k ResourceKind) Points() int {
	switch k {
	case ResourcePerson:
		return 50
	case ResourceClothing:
		return 5
	case ResourceFood:
		return 10
	case ResourceMedicine:
		return 20
	case ResourceAmmunition:
		return 50
	default:
		return 0
	}
}

// IsPerson reports whether the kind is a person rather than goods.
func (k ResourceKind) IsPerson() bool {
	return k == ResourcePerson
}

func (k ResourceKind) String() string {
	switch k {
	case ResourcePerson:
		return "person"
	case ResourceClothing:
		return "clothing"
	case ResourceFood:
		return "food"
	case ResourceMedicine:
		return "medicine"
	case ResourceAmmunition:
		return "ammunition"
	default:
		return "unknown"
	}
}

// Resource is a collectible placed on the grid at world-generation time.
// It is removed from the world when a vehicle picks it up.
type Resource struct {
	ID     uint         `json:"id"`
	Kind   ResourceKind `json:"kind"`
	Points int          `json:"points"`
	Pos    Position     `json:"pos"`
}
