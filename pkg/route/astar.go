package route

import (
	"container/heap"

	"github.com/planstack/floorplan/pkg/geometry"
)

// AStar finds a shortest 4-connected path between two cells using A*
// with a Manhattan-distance heuristic. It returns the cell sequence
// including both endpoints, or false when no path exists. A blocked
// start or goal has no path.
func AStar(g *Grid, start, goal geometry.Cell) ([]geometry.Cell, bool) {
	if g.Blocked(start) || g.Blocked(goal) {
		return nil, false
	}
	if start == goal {
		return []geometry.Cell{start}, true
	}

	open := &cellHeap{{cell: start, f: manhattan(start, goal)}}
	cameFrom := make(map[geometry.Cell]geometry.Cell)
	gScore := map[geometry.Cell]int{start: 0}
	closed := make(map[geometry.Cell]bool)

	for open.Len() > 0 {
		current := heap.Pop(open).(cellNode).cell
		if current == goal {
			return reconstruct(cameFrom, current), true
		}
		if closed[current] {
			continue
		}
		closed[current] = true

		for _, next := range geometry.Neighbors4(current) {
			if g.Blocked(next) || closed[next] {
				continue
			}
			tentative := gScore[current] + 1
			if best, seen := gScore[next]; seen && tentative >= best {
				continue
			}
			cameFrom[next] = current
			gScore[next] = tentative
			heap.Push(open, cellNode{cell: next, f: tentative + manhattan(next, goal)})
		}
	}
	return nil, false
}

func manhattan(a, b geometry.Cell) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func reconstruct(cameFrom map[geometry.Cell]geometry.Cell, end geometry.Cell) []geometry.Cell {
	path := []geometry.Cell{end}
	for {
		prev, ok := cameFrom[end]
		if !ok {
			break
		}
		path = append(path, prev)
		end = prev
	}
	// Reverse into start-to-goal order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// cellNode is one open-set entry. Ties on f break on row then column so
// runs are reproducible.
type cellNode struct {
	cell geometry.Cell
	f    int
}

type cellHeap []cellNode

func (h cellHeap) Len() int { return len(h) }

func (h cellHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	if h[i].cell.Row != h[j].cell.Row {
		return h[i].cell.Row < h[j].cell.Row
	}
	return h[i].cell.Col < h[j].cell.Col
}

func (h cellHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *cellHeap) Push(x any) { *h = append(*h, x.(cellNode)) }

func (h *cellHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
