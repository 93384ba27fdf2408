package spatial

// CellType specifies what occupies a grid location.
type CellType int

const (
	// PinCell is a required endpoint belonging to a pin set.
	PinCell CellType = iota
	// ObsCell may never be used for routing.
	ObsCell
	// RoutedCell is a non-pin cell allocated to some set's wire.
	RoutedCell
	// BlankCell is free space.
	BlankCell
)

// String returns a short name for the cell type.
func (t CellType) String() string {
	switch t {
	case PinCell:
		return "pin"
	case ObsCell:
		return "obstruction"
	case RoutedCell:
		return "routed"
	case BlankCell:
		return "blank"
	}
	return "unknown"
}

// NoPinSet is the PinSetID of cells that are neither pins nor routed.
const NoPinSet = -1

// UnsetWorkingValue marks a cell unvisited by the current search.
const UnsetWorkingValue = -1

// AStarScratch holds per-cell state for a single A* invocation.
// It replaces a generic per-cell property map with explicit fields and
// is discarded by Grid.ClearWorkingValues.
type AStarScratch struct {
	// From is the coordinate this cell was relaxed from.
	From Coord
	// DFromSource is the accumulated step cost from the source.
	DFromSource int
	// RippedConns counts foreign connections the path so far crosses.
	RippedConns int
	// Source and Sink identify the search this scratch belongs to.
	Source, Sink Coord
}

// Cell is one grid location: its coordinate, type, owning pin set
// (NoPinSet when blank or obstructed), and per-search scratch.
//
// Invariants: a PinCell or RoutedCell has PinSetID >= 0; a BlankCell
// or ObsCell has PinSetID == NoPinSet. WorkingValue is
// UnsetWorkingValue and Scratch is nil outside the lifetime of a
// single search call.
type Cell struct {
	Coord        Coord
	Type         CellType
	PinSetID     int
	WorkingValue int
	Scratch      *AStarScratch
}

// newCell returns a blank cell at the given coordinate.
func newCell(coord Coord) *Cell {
	return &Cell{
		Coord:        coord,
		Type:         BlankCell,
		PinSetID:     NoPinSet,
		WorkingValue: UnsetWorkingValue,
	}
}

// ResetWorking discards search scratch, returning the cell to its
// between-searches state.
func (c *Cell) ResetWorking() {
	c.WorkingValue = UnsetWorkingValue
	c.Scratch = nil
}

// clone returns an independent copy of the cell, scratch included.
func (c *Cell) clone() *Cell {
	nc := *c
	if c.Scratch != nil {
		s := *c.Scratch
		nc.Scratch = &s
	}
	return &nc
}
