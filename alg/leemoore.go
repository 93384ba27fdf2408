package alg

import (
	"github.com/katalvlaran/pinroute/record"
	"github.com/katalvlaran/pinroute/spatial"
)

// LeeMoore is a two-phase BFS wavefront router. Phase 1 floods
// outward from the source over blank and same-set cells. If the sink
// is unreachable and ripping is permitted, phase 2 re-seeds the flood
// and additionally admits routed cells of other pin sets (minus the
// blacklist).
//
// Complexity per call: O(cells) marking plus O(route) backtrace, twice
// in the worst case.
type LeeMoore struct{}

// FindRoute implements RoutingAlg.
func (LeeMoore) FindRoute(source, sink spatial.Coord, grid *spatial.Grid, opts Options) RouteResult {
	w := &leeMooreWalker{
		grid:     grid,
		source:   source,
		sink:     sink,
		pinSetID: grid.CellAt(source).PinSetID,
		opts:     opts,
	}
	result := w.run()
	if opts.Records != nil {
		opts.Records.LogCellGrid(grid, record.CoarseIntermediate, record.CoarseIntermediate)
	}
	if opts.ClearWorkingValues {
		grid.ClearWorkingValues()
	}
	return result
}

// leeMooreWalker holds the mutable state of one Lee-Moore run.
type leeMooreWalker struct {
	grid     *spatial.Grid
	source   spatial.Coord
	sink     spatial.Coord
	pinSetID int
	opts     Options
	ripPhase bool
}

// run floods from the source until a cell connected to the sink is
// dequeued, then backtraces. Termination is detected on dequeue: any
// same-set cell from which a monochromatic path reaches the sink ends
// the flood, and that tail path is inlined into the result.
func (w *leeMooreWalker) run() RouteResult {
	w.grid.CellAt(w.source).WorkingValue = 0
	queue := []spatial.Coord{w.source}

	for len(queue) > 0 {
		base := queue[0]
		queue = queue[1:]
		if w.grid.CellAt(base).PinSetID == w.pinSetID {
			if tail, ok := w.grid.RouteBetweenPins(base, w.sink); ok {
				return w.assemble(base, tail)
			}
		}
		queue = append(queue, w.markNeighbors(base)...)
		if len(queue) == 0 && !w.ripPhase && w.opts.AttemptRip {
			// phase 1 exhausted: restart the flood in rip mode
			w.ripPhase = true
			w.grid.ClearWorkingValues()
			w.grid.CellAt(w.source).WorkingValue = 0
			queue = append(queue, w.source)
		}
	}
	return RouteResult{}
}

// markNeighbors assigns working values to the eligible unvisited
// neighbors of base and returns them in the fixed enumeration order.
func (w *leeMooreWalker) markNeighbors(base spatial.Coord) []spatial.Coord {
	baseValue := w.grid.CellAt(base).WorkingValue
	var marked []spatial.Coord
	for _, n := range w.grid.NeighborCoordsOf(base) {
		cell := w.grid.CellAt(n)
		if cell.WorkingValue >= 0 {
			continue
		}
		eligible := cell.Type == spatial.BlankCell || cell.PinSetID == w.pinSetID
		if !eligible && w.ripPhase {
			eligible = cell.Type == spatial.RoutedCell &&
				cell.PinSetID != w.pinSetID &&
				!blacklisted(w.grid, n, w.opts.RipBlacklist)
		}
		if !eligible {
			continue
		}
		cost := StepCost
		if w.opts.RoutedCellsLowerCost && cell.PinSetID == w.pinSetID {
			cost = TrunkStepCost
		}
		cell.WorkingValue = baseValue + cost
		marked = append(marked, n)
	}
	if len(marked) > 0 && w.opts.Records != nil {
		w.opts.Records.LogCellGrid(w.grid, record.AllIntermediate, record.AllIntermediate)
	}
	return marked
}

// assemble builds the final route: backtraced cells from termination
// toward the source (reversed into source-to-termination order), the
// termination itself, then the inlined tail toward the sink.
func (w *leeMooreWalker) assemble(termination spatial.Coord, tail []spatial.Coord) RouteResult {
	route := reverseCoords(w.backtrace(termination))
	if !termination.Equal(w.source) && !termination.Equal(w.sink) {
		route = append(route, termination)
	}
	route = append(route, tail...)
	return RouteResult{
		Route:       route,
		RequiresRip: routeRequiresRip(w.grid, route, w.pinSetID),
	}
}

// backtrace walks from the termination toward the source, always
// stepping to the first neighbor (in enumeration order) with a
// strictly lower working value. Returns the visited cells ordered
// termination-first, excluding the termination and the source.
// Iterative on purpose: recursion depth would track route length.
func (w *leeMooreWalker) backtrace(termination spatial.Coord) []spatial.Coord {
	var rev []spatial.Coord
	cur := termination
	for !cur.Equal(w.source) {
		curValue := w.grid.CellAt(cur).WorkingValue
		advanced := false
		for _, n := range w.grid.NeighborCoordsOf(cur) {
			value := w.grid.CellAt(n).WorkingValue
			if value == 0 {
				// reached the source
				return rev
			}
			if value > 0 && value < curValue {
				rev = append(rev, n)
				cur = n
				advanced = true
				break
			}
		}
		if !advanced {
			// a marked grid always descends to the source
			panic("alg: Lee-Moore backtrace stuck on unmarked grid")
		}
	}
	return rev
}
