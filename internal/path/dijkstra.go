package path

import (
	"container/heap"

	"github.com/rescuesim/simulator/pkg/core"
)

// HazardCost is the penalty for stepping onto an active hazard. Large
// enough that any detour wins, small enough that a truly unavoidable
// hazard still yields a path instead of a dead end.
const HazardCost = 10000

// Dijkstra is the cost-weighted strategy. Edges cost 1, hazardous cells
// cost HazardCost, so hazards are strongly discouraged but never walls.
type Dijkstra struct{}

// NewDijkstra returns the cost-weighted strategy.
func NewDijkstra() *Dijkstra { return &Dijkstra{} }

func (s *Dijkstra) Name() string { return "dijkstra" }

type pqItem struct {
	pos  core.Position
	cost int
	seq  int
}

// priorityQueue orders by cost, then insertion order for determinism.
type priorityQueue []pqItem

func (q priorityQueue) Len() int { return len(q) }
func (q priorityQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].seq < q[j].seq
}
func (q priorityQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *priorityQueue) Push(x interface{}) { *q = append(*q, x.(pqItem)) }
func (q *priorityQueue) Pop() interface{} {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// FindPath runs Dijkstra over the 4-neighbor graph.
func (s *Dijkstra) FindPath(env Env, start, goal core.Position) ([]core.Position, int, error) {
	if !start.InBounds(env.Rows, env.Cols) || !goal.InBounds(env.Rows, env.Cols) {
		return nil, 0, ErrNoPath
	}
	if start == goal {
		return []core.Position{start}, 0, nil
	}

	dist := map[core.Position]int{start: 0}
	parent := make(map[core.Position]core.Position)
	done := make(map[core.Position]bool)

	pq := &priorityQueue{{pos: start, cost: 0}}
	heap.Init(pq)
	seq := 1

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		if done[cur.pos] {
			continue
		}
		done[cur.pos] = true
		if cur.pos == goal {
			return rebuild(parent, start, goal), cur.cost, nil
		}

		for _, next := range cur.pos.Neighbors4() {
			if done[next] || !env.passable(next, goal) {
				continue
			}
			step := 1
			if env.IsHazard != nil && env.IsHazard(next) {
				step = HazardCost
			}
			nd := cur.cost + step
			if best, seen := dist[next]; !seen || nd < best {
				dist[next] = nd
				parent[next] = cur.pos
				heap.Push(pq, pqItem{pos: next, cost: nd, seq: seq})
				seq++
			}
		}
	}
	return nil, 0, ErrNoPath
}
