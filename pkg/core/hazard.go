// pkg/core/hazard.go
package core

// HazardKind is the closed set of hazard (mine) shapes.
type HazardKind uint8

const (
	HazardLargeCircle HazardKind = iota
	HazardSmallCircle
	HazardHorizontalBand
	HazardVerticalBand
	HazardPeriodicCircle
)

func (k HazardKind) String() string {
	switch k {
	case HazardLargeCircle:
		return "large_circle"
	case HazardSmallCircle:
		return "small_circle"
	case HazardHorizontalBand:
		return "horizontal_band"
	case HazardVerticalBand:
		return "vertical_band"
	case HazardPeriodicCircle:
		return "periodic_circle"
	default:
		return "unknown"
	}
}

// IsCircle reports whether the kind has a circular footprint.
func (k HazardKind) IsCircle() bool {
	switch k {
	case HazardLargeCircle, HazardSmallCircle, HazardPeriodicCircle:
		return true
	default:
		return false
	}
}

// HazardParams holds the fixed geometry parameters of a hazard kind.
type HazardParams struct {
	Radius     int
	HalfWidth  int
	HalfLength int
	Period     int
	Static     bool
}

// ParamsFor returns the geometry parameters for a hazard kind.
// Bands are one cell thick; HalfWidth only widens their overlap envelope
// used during placement.
func ParamsFor(kind HazardKind) HazardParams {
	switch kind {
	case HazardLargeCircle:
		return HazardParams{Radius: 3, Static: true}
	case HazardSmallCircle:
		return HazardParams{Radius: 2, Static: true}
	case HazardHorizontalBand:
		return HazardParams{HalfWidth: 3, HalfLength: 7, Static: true}
	case HazardVerticalBand:
		return HazardParams{HalfWidth: 2, HalfLength: 5, Static: true}
	case HazardPeriodicCircle:
		return HazardParams{Radius: 2, Period: 5, Static: false}
	default:
		return HazardParams{}
	}
}

// Hazard is a single mine zone. Periodic hazards toggle their active state
// every Period ticks; static hazards never change.
type Hazard struct {
	ID         int        `json:"id"`
	Kind       HazardKind `json:"kind"`
	Center     Position   `json:"center"`
	Radius     int        `json:"radius,omitempty"`
	HalfWidth  int        `json:"halfWidth,omitempty"`
	HalfLength int        `json:"halfLength,omitempty"`
	Period     int        `json:"period,omitempty"`
	Static     bool       `json:"static"`
	Active     bool       `json:"active"`
	NextToggle int        `json:"nextToggle,omitempty"`
}

// NewHazard builds a hazard of the given kind centered at center.
// Periodic hazards start active with their first toggle one period out.
func NewHazard(id int, kind HazardKind, center Position) Hazard {
	p := ParamsFor(kind)
	return Hazard{
		ID:         id,
		Kind:       kind,
		Center:     center,
		Radius:     p.Radius,
		HalfWidth:  p.HalfWidth,
		HalfLength: p.HalfLength,
		Period:     p.Period,
		Static:     p.Static,
		Active:     true,
		NextToggle: p.Period,
	}
}

// ActiveAt computes the activation state at the given tick without mutating
// the hazard. For periodic hazards the state is projected forward from the
// stored Active/NextToggle pair.
func (h Hazard) ActiveAt(tick int) bool {
	if h.Static {
		return h.Active
	}
	if tick < h.NextToggle || h.Period <= 0 {
		return h.Active
	}
	toggles := (tick-h.NextToggle)/h.Period + 1
	if toggles%2 == 0 {
		return h.Active
	}
	return !h.Active
}

// Contains reports whether the cell is inside the hazard's danger area at
// the given tick. Inactive hazards contain nothing.
func (h Hazard) Contains(pos Position, tick int) bool {
	if !h.ActiveAt(tick) {
		return false
	}
	dr := pos.Row - h.Center.Row
	dc := pos.Col - h.Center.Col

	if h.Kind.IsCircle() {
		return dr*dr+dc*dc <= h.Radius*h.Radius
	}
	switch h.Kind {
	case HazardHorizontalBand:
		return dr == 0 && abs(dc) <= h.HalfLength
	case HazardVerticalBand:
		return dc == 0 && abs(dr) <= h.HalfLength
	}
	return false
}

// Footprint returns every in-bounds cell the hazard can affect, regardless
// of its current activation state.
func (h Hazard) Footprint(rows, cols int) []Position {
	var cells []Position
	switch {
	case h.Kind.IsCircle():
		for r := h.Center.Row - h.Radius; r <= h.Center.Row+h.Radius; r++ {
			for c := h.Center.Col - h.Radius; c <= h.Center.Col+h.Radius; c++ {
				p := Position{Row: r, Col: c}
				if !p.InBounds(rows, cols) {
					continue
				}
				dr, dc := r-h.Center.Row, c-h.Center.Col
				if dr*dr+dc*dc <= h.Radius*h.Radius {
					cells = append(cells, p)
				}
			}
		}
	case h.Kind == HazardHorizontalBand:
		for c := h.Center.Col - h.HalfLength; c <= h.Center.Col+h.HalfLength; c++ {
			p := Position{Row: h.Center.Row, Col: c}
			if p.InBounds(rows, cols) {
				cells = append(cells, p)
			}
		}
	case h.Kind == HazardVerticalBand:
		for r := h.Center.Row - h.HalfLength; r <= h.Center.Row+h.HalfLength; r++ {
			p := Position{Row: r, Col: h.Center.Col}
			if p.InBounds(rows, cols) {
				cells = append(cells, p)
			}
		}
	}
	return cells
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
