package alg

import (
	"container/heap"

	"github.com/katalvlaran/pinroute/record"
	"github.com/katalvlaran/pinroute/spatial"
)

// AStar is a best-first search with the admissible Manhattan
// heuristic h(c) = StepCost * manhattan(c, sink). Candidate cells
// admitted by ripping a foreign wire go to a secondary frontier that
// is only drained once the primary one runs dry, so rip routes are
// taken strictly after every pure route has been ruled out.
//
// With the trunk-reuse discount the heuristic strictly overestimates
// along reused wires, trading optimality there for fewer expansions;
// pure blank-cell routes remain optimal.
type AStar struct{}

// FindRoute implements RoutingAlg.
func (AStar) FindRoute(source, sink spatial.Coord, grid *spatial.Grid, opts Options) RouteResult {
	r := &aStarRunner{
		grid:     grid,
		source:   source,
		sink:     sink,
		pinSetID: grid.CellAt(source).PinSetID,
		opts:     opts,
	}
	result := r.run()
	if opts.Records != nil {
		opts.Records.LogCellGrid(grid, record.CoarseIntermediate, record.CoarseIntermediate)
	}
	if opts.ClearWorkingValues {
		grid.ClearWorkingValues()
	}
	return result
}

// openItem is a primary-frontier entry keyed by (f, tie) where f is
// the A* score and tie the neighbor's remaining Manhattan distance to
// the sink, so ties on f favor frontiers closer to the sink. seq keeps
// equal keys in insertion order.
type openItem struct {
	coord spatial.Coord
	f     int
	tie   int
	seq   int
}

type openPQ []openItem

func (q openPQ) Len() int { return len(q) }
func (q openPQ) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	if q[i].tie != q[j].tie {
		return q[i].tie < q[j].tie
	}
	return q[i].seq < q[j].seq
}
func (q openPQ) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *openPQ) Push(x any)   { *q = append(*q, x.(openItem)) }
func (q *openPQ) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// ripItem is a rip-frontier entry keyed by (rippedConns, dFromSource,
// tie): fewest ripped connections first, then cheapest, then closest
// to the sink.
type ripItem struct {
	coord  spatial.Coord
	ripped int
	d      int
	tie    int
	seq    int
}

type ripPQ []ripItem

func (q ripPQ) Len() int { return len(q) }
func (q ripPQ) Less(i, j int) bool {
	if q[i].ripped != q[j].ripped {
		return q[i].ripped < q[j].ripped
	}
	if q[i].d != q[j].d {
		return q[i].d < q[j].d
	}
	if q[i].tie != q[j].tie {
		return q[i].tie < q[j].tie
	}
	return q[i].seq < q[j].seq
}
func (q ripPQ) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *ripPQ) Push(x any)   { *q = append(*q, x.(ripItem)) }
func (q *ripPQ) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// aStarRunner holds the mutable state of one A* run.
type aStarRunner struct {
	grid     *spatial.Grid
	source   spatial.Coord
	sink     spatial.Coord
	pinSetID int
	opts     Options
	open     openPQ
	ripOpen  ripPQ
	seq      int
}

// run seeds the source, then pops the best frontier entry until a
// termination is found or both frontiers drain. The termination test
// runs at pop time: the sink itself, or a same-set routed cell from
// which a monochromatic path reaches the sink (that tail is inlined).
func (r *aStarRunner) run() RouteResult {
	md := r.source.ManhattanDistance(r.sink)
	src := r.grid.CellAt(r.source)
	src.WorkingValue = StepCost * md
	src.Scratch = &spatial.AStarScratch{
		From:   spatial.BlankCoord(),
		Source: r.source,
		Sink:   r.sink,
	}
	heap.Init(&r.open)
	heap.Init(&r.ripOpen)
	r.pushOpen(r.source, src.WorkingValue, md)

	for {
		cur, ok := r.pop()
		if !ok {
			return RouteResult{}
		}
		cell := r.grid.CellAt(cur)
		if cur.Equal(r.sink) {
			return r.assemble(cur, nil)
		}
		if cell.Type == spatial.RoutedCell && cell.PinSetID == r.pinSetID {
			if tail, ok := r.grid.RouteBetweenPins(cur, r.sink); ok {
				return r.assemble(cur, tail)
			}
		}
		r.relaxNeighbors(cur)
	}
}

// pop drains the primary frontier first; the rip frontier is touched
// only once the primary is empty and ripping is permitted. Stale
// entries (superseded by a later relaxation) are skipped.
func (r *aStarRunner) pop() (spatial.Coord, bool) {
	for r.open.Len() > 0 {
		item := heap.Pop(&r.open).(openItem)
		cell := r.grid.CellAt(item.coord)
		if cell.WorkingValue == item.f {
			return item.coord, true
		}
	}
	if !r.opts.AttemptRip {
		return spatial.Coord{}, false
	}
	for r.ripOpen.Len() > 0 {
		item := heap.Pop(&r.ripOpen).(ripItem)
		cell := r.grid.CellAt(item.coord)
		if cell.Scratch != nil &&
			cell.Scratch.RippedConns == item.ripped &&
			cell.Scratch.DFromSource == item.d {
			return item.coord, true
		}
	}
	return spatial.Coord{}, false
}

func (r *aStarRunner) pushOpen(c spatial.Coord, f, tie int) {
	heap.Push(&r.open, openItem{coord: c, f: f, tie: tie, seq: r.seq})
	r.seq++
}

func (r *aStarRunner) pushRip(c spatial.Coord, ripped, d, tie int) {
	heap.Push(&r.ripOpen, ripItem{coord: c, ripped: ripped, d: d, tie: tie, seq: r.seq})
	r.seq++
}

// relaxNeighbors scores the four neighbors of cur. Non-rip candidates
// relax on a strictly better f; rip candidates relax on strictly
// fewer ripped connections and carry the rip penalty in their cost.
func (r *aStarRunner) relaxNeighbors(cur spatial.Coord) {
	curScratch := r.grid.CellAt(cur).Scratch
	marked := false
	for _, n := range r.grid.NeighborCoordsOf(cur) {
		cell := r.grid.CellAt(n)
		tie := n.ManhattanDistance(r.sink)
		h := StepCost * tie

		if cell.Type == spatial.BlankCell || cell.PinSetID == r.pinSetID {
			d := curScratch.DFromSource + StepCost
			if r.opts.RoutedCellsLowerCost && cell.Type == spatial.RoutedCell && cell.PinSetID == r.pinSetID {
				d = curScratch.DFromSource + TrunkStepCost
			}
			f := d + h
			if cell.WorkingValue >= 0 && cell.WorkingValue <= f {
				continue
			}
			cell.WorkingValue = f
			cell.Scratch = &spatial.AStarScratch{
				From:        cur,
				DFromSource: d,
				RippedConns: curScratch.RippedConns,
				Source:      r.source,
				Sink:        r.sink,
			}
			r.pushOpen(n, f, tie)
			marked = true
			continue
		}

		if !r.opts.AttemptRip ||
			cell.Type != spatial.RoutedCell ||
			blacklisted(r.grid, n, r.opts.RipBlacklist) {
			continue
		}
		d := curScratch.DFromSource + StepCost + r.opts.RipPenalty
		ripped := curScratch.RippedConns + r.foreignConns(n)
		if cell.Scratch != nil && cell.Scratch.RippedConns <= ripped {
			continue
		}
		cell.WorkingValue = d + h
		cell.Scratch = &spatial.AStarScratch{
			From:        cur,
			DFromSource: d,
			RippedConns: ripped,
			Source:      r.source,
			Sink:        r.sink,
		}
		r.pushRip(n, ripped, d, tie)
		marked = true
	}
	if marked && r.opts.Records != nil {
		r.opts.Records.LogCellGrid(r.grid, record.AllIntermediate, record.AllIntermediate)
	}
}

// foreignConns counts connections of other pin sets crossing coord.
func (r *aStarRunner) foreignConns(coord spatial.Coord) int {
	count := 0
	for _, cn := range r.grid.ConnectionsAt(coord) {
		if cn.PinSetID != r.pinSetID {
			count++
		}
	}
	return count
}

// assemble walks the From chain from the termination back to the
// source, reverses it into source-to-termination order, and appends
// the inlined tail toward the sink.
func (r *aStarRunner) assemble(termination spatial.Coord, tail []spatial.Coord) RouteResult {
	var rev []spatial.Coord
	cur := termination
	for !cur.Equal(r.source) {
		if !cur.Equal(r.sink) {
			rev = append(rev, cur)
		}
		cur = r.grid.CellAt(cur).Scratch.From
	}
	route := append(reverseCoords(rev), tail...)
	return RouteResult{
		Route:       route,
		RequiresRip: routeRequiresRip(r.grid, route, r.pinSetID),
	}
}
