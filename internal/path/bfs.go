package path

import (
	"github.com/rescuesim/simulator/pkg/core"
)

// BFS is the unweighted strategy. Hazardous cells are impassable walls, so
// every returned path is hazard-free. Expansion is bounded to guard against
// pathological maps.
type BFS struct{}

// NewBFS returns the breadth-first strategy.
func NewBFS() *BFS { return &BFS{} }

func (s *BFS) Name() string { return "bfs" }

// FindPath runs a bounded breadth-first search over the 4-neighbor graph.
func (s *BFS) FindPath(env Env, start, goal core.Position) ([]core.Position, int, error) {
	if !start.InBounds(env.Rows, env.Cols) || !goal.InBounds(env.Rows, env.Cols) {
		return nil, 0, ErrNoPath
	}
	if start == goal {
		return []core.Position{start}, 0, nil
	}

	maxExpansions := env.Rows * env.Cols
	visited := make(map[core.Position]bool, maxExpansions)
	parent := make(map[core.Position]core.Position)
	queue := []core.Position{start}
	visited[start] = true

	for expanded := 0; len(queue) > 0 && expanded < maxExpansions; expanded++ {
		cur := queue[0]
		queue = queue[1:]

		for _, next := range cur.Neighbors4() {
			if visited[next] || !env.passable(next, goal) {
				continue
			}
			if env.IsHazard != nil && env.IsHazard(next) {
				continue
			}
			visited[next] = true
			parent[next] = cur
			if next == goal {
				p := rebuild(parent, start, goal)
				return p, len(p) - 1, nil
			}
			queue = append(queue, next)
		}
	}
	return nil, 0, ErrNoPath
}

// rebuild walks the parent chain goal→start and reverses it.
func rebuild(parent map[core.Position]core.Position, start, goal core.Position) []core.Position {
	var rev []core.Position
	for p := goal; ; {
		rev = append(rev, p)
		if p == start {
			break
		}
		p = parent[p]
	}
	out := make([]core.Position, len(rev))
	for i, p := range rev {
		out[len(rev)-1-i] = p
	}
	return out
}
