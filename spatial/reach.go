package spatial

import "container/heap"

// reachItem is one frontier entry of the reachability search, keyed by
// remaining Manhattan distance to the target. seq preserves insertion
// order among equal keys for deterministic expansion.
type reachItem struct {
	coord Coord
	dist  int
	seq   int
}

// reachPQ is a min-heap of reachItem ordered by (dist, seq).
type reachPQ []reachItem

func (q reachPQ) Len() int { return len(q) }
func (q reachPQ) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].seq < q[j].seq
}
func (q reachPQ) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *reachPQ) Push(x any)        { *q = append(*q, x.(reachItem)) }
func (q *reachPQ) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// RouteBetweenPins searches for a path from a to b over cells of type
// PinCell or RoutedCell whose pin-set id equals that of a. The
// frontier is priority-ordered by remaining Manhattan distance to b.
// On success it returns the interior path (excluding both endpoints)
// ordered from a's side toward b, and true.
//
// The search uses only its own visited/parent bookkeeping and never
// touches cell working values, so it is safe to call mid-search.
//
// Complexity: O(W log W) where W is the number of same-set wire cells.
func (g *Grid) RouteBetweenPins(a, b Coord) ([]Coord, bool) {
	start := g.CellAt(a)
	if start == nil || !g.InBounds(b) {
		return nil, false
	}
	if start.Type != PinCell && start.Type != RoutedCell {
		return nil, false
	}
	pinSetID := start.PinSetID

	visited := map[Coord]bool{a: true}
	parent := make(map[Coord]Coord)
	frontier := reachPQ{{coord: a, dist: a.ManhattanDistance(b)}}
	heap.Init(&frontier)
	seq := 1

	for frontier.Len() > 0 {
		cur := heap.Pop(&frontier).(reachItem).coord
		if cur.Equal(b) {
			return assemblePath(parent, a, b), true
		}
		for _, n := range g.NeighborCoordsOf(cur) {
			if visited[n] {
				continue
			}
			cell := g.CellAt(n)
			if (cell.Type != PinCell && cell.Type != RoutedCell) || cell.PinSetID != pinSetID {
				continue
			}
			visited[n] = true
			parent[n] = cur
			heap.Push(&frontier, reachItem{coord: n, dist: n.ManhattanDistance(b), seq: seq})
			seq++
		}
	}
	return nil, false
}

// assemblePath walks parent links from b back to a and returns the
// interior cells ordered from a's side toward b.
func assemblePath(parent map[Coord]Coord, a, b Coord) []Coord {
	var rev []Coord
	for cur := b; !cur.Equal(a); cur = parent[cur] {
		if !cur.Equal(b) {
			rev = append(rev, cur)
		}
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// RouteExistsBetweenPins reports whether a monochromatic wire path
// joins a and b. Symmetric in its arguments.
func (g *Grid) RouteExistsBetweenPins(a, b Coord) bool {
	_, ok := g.RouteBetweenPins(a, b)
	return ok
}

// ConnectedPins returns every pin reachable from the given coordinate
// through same-set pins and routed cells. If the coordinate is not
// part of a wire the result is empty.
//
// The traversal uses an explicit stack; recursion would risk stack
// exhaustion on large grids.
func (g *Grid) ConnectedPins(c Coord) []Coord {
	start := g.CellAt(c)
	if start == nil || (start.Type != PinCell && start.Type != RoutedCell) {
		return nil
	}
	pinSetID := start.PinSetID
	var pins []Coord
	visited := map[Coord]bool{c: true}
	stack := []Coord{c}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cell := g.CellAt(cur); cell.Type == PinCell {
			pins = append(pins, cur)
		}
		for _, n := range g.NeighborCoordsOf(cur) {
			if visited[n] {
				continue
			}
			cell := g.CellAt(n)
			if (cell.Type != PinCell && cell.Type != RoutedCell) || cell.PinSetID != pinSetID {
				continue
			}
			visited[n] = true
			stack = append(stack, n)
		}
	}
	return pins
}

// AllPinsRouted reports whether every pin set is fully connected,
// checking consecutive pin pairs of each set exhaustively. Intended as
// an end-of-suite sanity check; costs O(P * grid).
func (g *Grid) AllPinsRouted() bool {
	for _, set := range g.pinSets {
		for i := 0; i+1 < len(set); i++ {
			if !g.RouteExistsBetweenPins(set[i], set[i+1]) {
				return false
			}
		}
	}
	return true
}
