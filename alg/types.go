// Package alg implements the single-pair search algorithms of the
// maze router: a Lee-Moore BFS wavefront and an A* best-first search.
//
// Both algorithms share one contract, FindRoute: given a source and a
// sink of the same pin set, mark scratch values on the grid, and
// return the route coordinates between them (endpoints excluded).
// Cell types are never changed here; accepting a route and converting
// cells is the caller's job.
package alg

import (
	"github.com/katalvlaran/pinroute/record"
	"github.com/katalvlaran/pinroute/spatial"
)

// Step costs shared by both algorithms.
const (
	// StepCost is the cost of expanding into a cell that gets no
	// trunk discount.
	StepCost = 100
	// TrunkStepCost is the discounted cost used when
	// Options.RoutedCellsLowerCost is set: AStar applies it to
	// same-set routed cells, LeeMoore to every same-set cell, pins
	// included.
	TrunkStepCost = 40
	// DefaultRipPenalty dominates any realistic path cost so that rip
	// candidates are only taken once every pure path is exhausted.
	DefaultRipPenalty = 50_000
)

// RouteResult is the outcome of one FindRoute call. Route is empty iff
// no route exists; RequiresRip is true iff the route crosses at least
// one cell currently owned by another pin set's connection. Route is
// ordered from the source's side toward the sink; the endpoints
// themselves are not included.
type RouteResult struct {
	Route       []spatial.Coord
	RequiresRip bool
}

// Empty reports whether no route was found.
func (r RouteResult) Empty() bool {
	return len(r.Route) == 0
}

// Options tunes a single FindRoute call.
type Options struct {
	// RoutedCellsLowerCost makes same-set routed cells cost
	// TrunkStepCost instead of StepCost, so extensions reuse existing
	// trunks.
	RoutedCellsLowerCost bool
	// ClearWorkingValues resets all grid scratch before returning.
	ClearWorkingValues bool
	// AttemptRip permits expansion through routed cells of other pin
	// sets.
	AttemptRip bool
	// RipBlacklist lists connections that must never be crossed even
	// in rip mode.
	RipBlacklist []*spatial.Connection
	// RipPenalty is added to the accumulated cost when admitting a
	// rip cell.
	RipPenalty int
	// Records receives intermediate grid snapshots; may be nil.
	Records *record.RoutingRecords
}

// Option mutates Options in the functional style.
type Option func(*Options)

// DefaultOptions returns the baseline configuration: trunk reuse on,
// scratch cleared at return, ripping off, default rip penalty.
func DefaultOptions() Options {
	return Options{
		RoutedCellsLowerCost: true,
		ClearWorkingValues:   true,
		RipPenalty:           DefaultRipPenalty,
	}
}

// WithRoutedCellsLowerCost toggles the trunk-reuse discount.
func WithRoutedCellsLowerCost(on bool) Option {
	return func(o *Options) { o.RoutedCellsLowerCost = on }
}

// WithClearWorkingValues toggles scratch reset at return.
func WithClearWorkingValues(on bool) Option {
	return func(o *Options) { o.ClearWorkingValues = on }
}

// WithAttemptRip permits expansion through foreign routed cells.
func WithAttemptRip(on bool) Option {
	return func(o *Options) { o.AttemptRip = on }
}

// WithRipBlacklist forbids crossing the given connections.
func WithRipBlacklist(conns []*spatial.Connection) Option {
	return func(o *Options) { o.RipBlacklist = conns }
}

// WithRipPenalty overrides the rip admission penalty.
func WithRipPenalty(p int) Option {
	return func(o *Options) {
		if p > 0 {
			o.RipPenalty = p
		}
	}
}

// WithRecords attaches an observer for intermediate snapshots.
func WithRecords(rec *record.RoutingRecords) Option {
	return func(o *Options) { o.Records = rec }
}

// RoutingAlg is the uniform single-pair search contract. source and
// sink must be in-bounds cells sharing a pin-set id; grid scratch is
// mutated during the search. A failed search returns an empty result,
// never an error.
type RoutingAlg interface {
	FindRoute(source, sink spatial.Coord, grid *spatial.Grid, opts Options) RouteResult
}

// blacklisted reports whether any connection registered at coord is on
// the blacklist. Connections are matched by identity or by their
// logical key (pin pair plus pin-set id), so blacklist entries keep
// working across the connection re-homing done by grid restores.
func blacklisted(grid *spatial.Grid, coord spatial.Coord, blacklist []*spatial.Connection) bool {
	if len(blacklist) == 0 {
		return false
	}
	for _, cn := range grid.ConnectionsAt(coord) {
		for _, b := range blacklist {
			if cn == b || (cn.PinSetID == b.PinSetID && cn.Pins == b.Pins) {
				return true
			}
		}
	}
	return false
}

// routeRequiresRip reports whether the route crosses a cell currently
// owned by another pin set.
func routeRequiresRip(grid *spatial.Grid, route []spatial.Coord, pinSetID int) bool {
	for _, c := range route {
		cell := grid.CellAt(c)
		if cell.Type == spatial.RoutedCell && cell.PinSetID != pinSetID {
			return true
		}
	}
	return false
}

// reverseCoords reverses a coordinate slice in place and returns it.
func reverseCoords(cs []spatial.Coord) []spatial.Coord {
	for i, j := 0, len(cs)-1; i < j; i, j = i+1, j-1 {
		cs[i], cs[j] = cs[j], cs[i]
	}
	return cs
}
