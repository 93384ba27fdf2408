// Package record is the observer sink of the router: it keeps
// verbosity-filtered collections of per-step grid snapshots and feeds
// a live-update channel for UI surfaces.
//
// Every snapshot handed out is an independently owned deep clone, so
// the router is free to mutate its grid immediately after logging. The
// live channel is bounded with last-value coalescing; logging never
// blocks the routing worker.
package record

import (
	"github.com/google/uuid"

	"github.com/katalvlaran/pinroute/spatial"
)

// Verbosity grades how much detail an event carries (or how much a
// threshold admits). Higher values are more significant: an event is
// recorded iff its level >= the configured threshold.
type Verbosity int

const (
	// AllIntermediate marks every marking round of a search.
	AllIntermediate Verbosity = iota
	// CoarseIntermediate marks the end of each algorithm invocation.
	CoarseIntermediate
	// ResultsOnly marks accepted or rejected routes.
	ResultsOnly
)

// String returns a short name for the verbosity level.
func (v Verbosity) String() string {
	switch v {
	case AllIntermediate:
		return "all-intermediate"
	case CoarseIntermediate:
		return "coarse-intermediate"
	case ResultsOnly:
		return "results-only"
	}
	return "unknown"
}

// SolveSteps is the ordered snapshot log of a single solve attempt.
type SolveSteps struct {
	ID        uuid.UUID
	Desc      string
	StepGrids []*spatial.Grid
}

// SolveCollection groups the solve attempts of one routing run.
type SolveCollection struct {
	ID         uuid.UUID
	Desc       string
	SolveSteps []*SolveSteps
}

// NewSolveCollection returns an empty collection.
func NewSolveCollection(desc string) *SolveCollection {
	return &SolveCollection{ID: uuid.New(), Desc: desc}
}

// NewSolveSteps appends a fresh steps list and returns it.
func (c *SolveCollection) NewSolveSteps(desc string) *SolveSteps {
	s := &SolveSteps{ID: uuid.New(), Desc: desc}
	c.SolveSteps = append(c.SolveSteps, s)
	return s
}

// Clear drops all recorded attempts.
func (c *SolveCollection) Clear() {
	c.Desc = ""
	c.SolveSteps = nil
}

// RoutingRecords filters and stores grid snapshots. The zero value is
// not usable; construct with New.
type RoutingRecords struct {
	logVerbosity Verbosity
	uiVerbosity  Verbosity
	col          *SolveCollection
	cur          *SolveSteps
	updates      chan *spatial.Grid
}

// New returns a record keeper writing to col (which may be nil when
// only live updates are wanted).
func New(logVb, uiVb Verbosity, col *SolveCollection) *RoutingRecords {
	return &RoutingRecords{
		logVerbosity: logVb,
		uiVerbosity:  uiVb,
		col:          col,
		updates:      make(chan *spatial.Grid, 1),
	}
}

// LogVerbosity returns the storage threshold.
func (r *RoutingRecords) LogVerbosity() Verbosity { return r.logVerbosity }

// SetLogVerbosity sets the storage threshold.
func (r *RoutingRecords) SetLogVerbosity(v Verbosity) { r.logVerbosity = v }

// UIVerbosity returns the live-update threshold.
func (r *RoutingRecords) UIVerbosity() Verbosity { return r.uiVerbosity }

// SetUIVerbosity sets the live-update threshold.
func (r *RoutingRecords) SetUIVerbosity(v Verbosity) { r.uiVerbosity = v }

// Collection returns the collection being written to.
func (r *RoutingRecords) Collection() *SolveCollection { return r.col }

// NewSolveSteps opens a fresh steps list; subsequent LogCellGrid calls
// append to it. Without a collection this is a no-op returning nil.
func (r *RoutingRecords) NewSolveSteps(desc string) *SolveSteps {
	if r.col == nil {
		return nil
	}
	r.cur = r.col.NewSolveSteps(desc)
	return r.cur
}

// Updates returns the live-update channel. Consumers receive deep
// clones and must treat them as read-only. Slow consumers only ever
// miss intermediate frames: the channel always holds the newest
// snapshot that passed the UI threshold.
func (r *RoutingRecords) Updates() <-chan *spatial.Grid {
	return r.updates
}

// LogCellGrid records a snapshot of grid. The snapshot is stored in
// the current solve steps iff logVb >= the storage threshold, and
// published to the live channel iff uiVb >= the live threshold.
// Never blocks: a full channel is drained of its stale frame first.
func (r *RoutingRecords) LogCellGrid(grid *spatial.Grid, logVb, uiVb Verbosity) {
	if grid == nil {
		return
	}
	storing := logVb >= r.logVerbosity && r.cur != nil
	signaling := uiVb >= r.uiVerbosity
	if !storing && !signaling {
		return
	}
	snap := grid.Clone()
	if storing {
		r.cur.StepGrids = append(r.cur.StepGrids, snap)
	}
	if signaling {
		select {
		case r.updates <- snap:
		default:
			select {
			case <-r.updates:
			default:
			}
			select {
			case r.updates <- snap:
			default:
			}
		}
	}
}
