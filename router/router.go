package router

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/pinroute/alg"
	"github.com/katalvlaran/pinroute/internal/ctxlog"
	"github.com/katalvlaran/pinroute/problem"
	"github.com/katalvlaran/pinroute/record"
	"github.com/katalvlaran/pinroute/spatial"
)

// Router routes a whole problem: every pin pair of every pin set,
// nearest pairs first, with bounded retry sweeps and optional
// rip-and-reroute repair.
type Router struct {
	problem  *problem.Problem
	settings Settings
	alg      alg.RoutingAlg
}

// New validates the settings and returns a router for the problem.
func New(p *problem.Problem, s Settings) (*Router, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	a, err := s.newAlg()
	if err != nil {
		return nil, err
	}
	return &Router{problem: p, settings: s, alg: a}, nil
}

// Settings returns the router's configuration.
func (r *Router) Settings() Settings { return r.settings }

// Route seeds a grid from the router's problem and routes it.
// Convenience wrapper around RouteSuite.
func (r *Router) Route(ctx context.Context, records *record.RoutingRecords) (bool, *spatial.Grid, error) {
	grid, err := r.problem.Grid()
	if err != nil {
		return false, nil, err
	}
	ok := r.RouteSuite(ctx, r.problem.PinSets, grid, records)
	return ok, grid, nil
}

// RouteSuite attempts to route every pin pair of every pin set on the
// grid. Returns whether everything was routed.
//
// ctx is the soft-halt signal: it is polled between algorithm
// operations, and cancellation exits cleanly with all committed
// routing progress preserved. records may be nil.
//
// The scheduler visits nearest pairs first. A failed pair is pushed to
// the front of the difficult list (or promoted back to the front once
// its failure count reaches the boost threshold). When a sweep ends
// with failures, the grid and pair queue are restored from backups,
// the difficult pairs are enqueued ahead of everything else, and the
// sweep repeats until the attempt budget runs out.
func (r *Router) RouteSuite(ctx context.Context, pinSets []spatial.PinSet, grid *spatial.Grid, records *record.RoutingRecords) bool {
	s := &suiteRun{
		r:            r,
		grid:         grid,
		records:      records,
		pairs:        newPairQueue(pinSets),
		pinSets:      pinSets,
		unrouted:     make(map[spatial.Coord]bool),
		failedPins:   make(map[spatial.Coord]bool),
		failCount:    make(map[spatial.PinPair]int),
		attemptsLeft: r.settings.MaxRerunCount,
	}
	s.resetUnrouted()
	s.gridBackup = grid.Clone()
	s.pairsBackup = s.pairs.snapshot()
	if records != nil {
		records.NewSolveSteps("sweep 1")
	}
	return s.run(ctx)
}

// suiteRun holds the mutable state of one RouteSuite invocation.
type suiteRun struct {
	r       *Router
	grid    *spatial.Grid
	records *record.RoutingRecords

	pairs    *pairQueue
	priority []spatial.PinPair // FIFO, served before the pair queue
	pinSets  []spatial.PinSet

	unrouted   map[spatial.Coord]bool
	failedPins map[spatial.Coord]bool
	difficult  []spatial.PinPair
	failCount  map[spatial.PinPair]int

	gridBackup   *spatial.Grid
	pairsBackup  []pairEntry
	attemptsLeft int
}

// resetUnrouted marks every pin of every set as not yet routed.
func (s *suiteRun) resetUnrouted() {
	s.unrouted = make(map[spatial.Coord]bool)
	for _, set := range s.pinSets {
		for _, c := range set {
			s.unrouted[c] = true
		}
	}
}

// run is the main scheduling loop.
func (s *suiteRun) run(ctx context.Context) bool {
	logger := ctxlog.FromContext(ctx)
	// single-pin sets yield no pairs; an empty schedule is trivially done
	allDone := s.pairs.Len() == 0
	sweep := 1

	for !allDone && s.attemptsLeft > 0 && (s.pairs.Len() > 0 || len(s.priority) > 0) {
		select {
		case <-ctx.Done():
			logger.Info("router: soft halt requested, preserving progress",
				"unrouted_pins", len(s.unrouted))
			return false
		default:
		}

		var pair spatial.PinPair
		if len(s.priority) > 0 {
			pair = s.priority[0]
			s.priority = s.priority[1:]
		} else {
			pair = s.pairs.PopPair()
		}

		if source, sink, ok := s.orient(pair); ok {
			if s.routePinPair(source, sink) {
				delete(s.unrouted, source)
				delete(s.unrouted, sink)
			} else {
				s.noteFailure(pair, source, sink)
			}
		}

		if s.pairs.Len() == 0 && len(s.priority) == 0 {
			if len(s.failedPins) == 0 {
				allDone = true
			} else {
				sweep++
				s.restartSweep(sweep, logger)
			}
		}
	}

	if allDone && !s.grid.AllPinsRouted() {
		logger.Warn("router: suite reported success but a pin pair is unreachable")
		return false
	}
	return allDone
}

// orient picks the search direction: the source must be a pin that is
// not yet routed. A pair whose endpoints are both already routed is
// skipped without checking that they are connected; a set left split
// this way is caught by the AllPinsRouted check at the end of run.
func (s *suiteRun) orient(pair spatial.PinPair) (source, sink spatial.Coord, ok bool) {
	if s.unrouted[pair.A] {
		return pair.A, pair.B, true
	}
	if s.unrouted[pair.B] {
		return pair.B, pair.A, true
	}
	return spatial.Coord{}, spatial.Coord{}, false
}

// noteFailure records a failed pair: endpoints join the failed-pin
// set, a first-time failure is pushed to the front of the difficult
// list, and a repeat offender is promoted back to the front once its
// counter reaches the boost threshold.
func (s *suiteRun) noteFailure(pair spatial.PinPair, source, sink spatial.Coord) {
	s.failedPins[source] = true
	s.failedPins[sink] = true
	count, seen := s.failCount[pair]
	if !seen {
		s.difficult = append([]spatial.PinPair{pair}, s.difficult...)
		s.failCount[pair] = 1
		return
	}
	count++
	if count >= s.r.settings.DifficultBoostThresh {
		s.promote(pair)
		count = 0
	}
	s.failCount[pair] = count
}

// promote moves a pair to the front of the difficult list.
func (s *suiteRun) promote(pair spatial.PinPair) {
	for i, p := range s.difficult {
		if p == pair {
			s.difficult = append(s.difficult[:i], s.difficult[i+1:]...)
			break
		}
	}
	s.difficult = append([]spatial.PinPair{pair}, s.difficult...)
}

// restartSweep rolls the grid and pair queue back to their pristine
// state and schedules the difficult pairs ahead of everything else.
func (s *suiteRun) restartSweep(sweep int, logger *slog.Logger) {
	logger.Info("router: sweep ended with failures, restarting",
		"sweep", sweep,
		"failed_pins", len(s.failedPins),
		"difficult_pairs", len(s.difficult))
	s.priority = append(s.priority[:0], s.difficult...)
	s.grid.CopyState(s.gridBackup)
	s.pairs.restore(s.pairsBackup)
	s.resetUnrouted()
	s.failedPins = make(map[spatial.Coord]bool)
	s.attemptsLeft--
	if s.records != nil {
		s.records.NewSolveSteps(fmt.Sprintf("sweep %d", sweep))
	}
}

// algOptions assembles the per-call search options.
func (s *suiteRun) algOptions(attemptRip bool, blacklist []*spatial.Connection) alg.Options {
	opts := alg.DefaultOptions()
	opts.RoutedCellsLowerCost = s.r.settings.RoutedCellsLowerCost
	opts.AttemptRip = attemptRip
	opts.RipBlacklist = blacklist
	opts.RipPenalty = s.r.settings.RipPenalty
	opts.Records = s.records
	return opts
}

// logResults emits a results-level snapshot.
func (s *suiteRun) logResults() {
	if s.records != nil {
		s.records.LogCellGrid(s.grid, record.ResultsOnly, record.ResultsOnly)
	}
}

// routePinPair attempts one pair. An existing monochromatic wire path
// is registered without a search; otherwise the configured algorithm
// runs, and a route needing rips is handed to the rip-and-reroute
// repair loop.
func (s *suiteRun) routePinPair(source, sink spatial.Coord) bool {
	pinSetID := s.grid.CellAt(source).PinSetID
	pair := spatial.PinPair{A: source, B: sink}

	if route, ok := s.grid.RouteBetweenPins(source, sink); ok {
		createConnection(pair, route, pinSetID, s.grid)
		s.logResults()
		return true
	}

	result := s.r.alg.FindRoute(source, sink, s.grid, s.algOptions(s.r.settings.RipAndReroute, nil))
	switch {
	case !result.Empty() && !result.RequiresRip:
		createConnection(pair, result.Route, pinSetID, s.grid)
		s.logResults()
		return true
	case result.RequiresRip && s.r.settings.RipAndReroute:
		return s.ripAndReroute(pair, pinSetID, result)
	default:
		s.logResults()
		return false
	}
}

// ripAndReroute speculatively accepts a route that crosses foreign
// wires: the crossing connections are ripped and rerouted without rip
// permission. Any reroute failure rolls the grid back to the pre-rip
// snapshot, blacklists the connections crossing the offending route,
// and retries the original pair, up to the configured attempt budget.
// On every failure exit the grid is bit-identical to the pre-rip
// snapshot.
func (s *suiteRun) ripAndReroute(pair spatial.PinPair, pinSetID int, result alg.RouteResult) bool {
	preRip := s.grid.Clone()
	var blacklist []*spatial.Connection
	route := result.Route

	for attempt := 0; attempt < s.r.settings.RipAndRerouteCount; attempt++ {
		victims := existingConnections(route, s.grid, pinSetID)
		reroutePairs := make([]spatial.PinPair, 0, len(victims))
		rerouteIDs := make([]int, 0, len(victims))
		for _, cn := range victims {
			reroutePairs = append(reroutePairs, cn.Pins)
			rerouteIDs = append(rerouteIDs, cn.PinSetID)
			ripConnection(cn, s.grid)
		}
		createConnection(pair, route, pinSetID, s.grid)

		failed := false
		for i, rp := range reroutePairs {
			rr := s.r.alg.FindRoute(rp.A, rp.B, s.grid, s.algOptions(false, blacklist))
			if rr.Empty() {
				failed = true
				break
			}
			createConnection(rp, rr.Route, rerouteIDs[i], s.grid)
		}
		if !failed {
			s.logResults()
			return true
		}

		// roll back, widen the blacklist, and search again
		s.grid.CopyState(preRip)
		blacklist = appendNewConns(blacklist, existingConnections(route, s.grid, pinSetID))
		retry := s.r.alg.FindRoute(pair.A, pair.B, s.grid, s.algOptions(true, blacklist))
		if retry.Empty() {
			break
		}
		if !retry.RequiresRip {
			createConnection(pair, retry.Route, pinSetID, s.grid)
			s.logResults()
			return true
		}
		route = retry.Route
	}
	s.logResults()
	return false
}

// appendNewConns appends connections not already on the list.
// Membership follows the same logical identity the algorithms use for
// blacklist checks: pin pair plus pin-set id, so entries survive the
// connection re-homing done by grid restores.
func appendNewConns(list []*spatial.Connection, conns []*spatial.Connection) []*spatial.Connection {
	for _, cn := range conns {
		found := false
		for _, have := range list {
			if have == cn || (have.PinSetID == cn.PinSetID && have.Pins == cn.Pins) {
				found = true
				break
			}
		}
		if !found {
			list = append(list, cn)
		}
	}
	return list
}
