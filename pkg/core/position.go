// pkg/core/position.go
package core

// Position identifies a grid cell by row and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// ManhattanDistance returns the L1 distance to another position.
func (p Position) ManhattanDistance(o Position) int {
	dr := p.Row - o.Row
	if dr < 0 {
		dr = -dr
	}
	dc := p.Col - o.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// Neighbors4 returns the four axis-aligned neighbors in deterministic
// order: up, down, left, right. Callers are responsible for bounds checks.
func (p Position) Neighbors4() [4]Position {
	return [4]Position{
		{Row: p.Row - 1, Col: p.Col},
		{Row: p.Row + 1, Col: p.Col},
		{Row: p.Row, Col: p.Col - 1},
		{Row: p.Row, Col: p.Col + 1},
	}
}

// InBounds reports whether the position lies inside a rows×cols grid.
func (p Position) InBounds(rows, cols int) bool {
	return p.Row >= 0 && p.Row < rows && p.Col >= 0 && p.Col < cols
}
