package spatial

import "fmt"

// Grid is the 2-D cell array a routing problem is solved on, together
// with the pin-set registry and the connection registry (a multimap
// from every coordinate a connection passes through to that
// connection; a pin shared by several connections appears once per
// connection).
type Grid struct {
	dimX, dimY int
	cells      [][]*Cell // indexed [x][y]
	pinSets    map[int]PinSet
	conn       map[Coord][]*Connection
}

// NewGrid constructs an unsolved grid of the given size, seeds the
// obstruction cells, and assigns each pin set an id in list order.
// Returns ErrBadDimensions for non-positive sizes, ErrOutOfBounds for
// seed coordinates outside the grid, and ErrCellClash when two seed
// coordinates claim the same cell.
//
// Complexity: O(dimX*dimY + seeds).
func NewGrid(dimX, dimY int, obstructions []Coord, pinSets []PinSet) (*Grid, error) {
	if dimX <= 0 || dimY <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, dimX, dimY)
	}
	g := &Grid{
		dimX:    dimX,
		dimY:    dimY,
		cells:   make([][]*Cell, dimX),
		pinSets: make(map[int]PinSet, len(pinSets)),
		conn:    make(map[Coord][]*Connection),
	}
	for x := 0; x < dimX; x++ {
		g.cells[x] = make([]*Cell, dimY)
		for y := 0; y < dimY; y++ {
			g.cells[x][y] = newCell(NewCoord(x, y))
		}
	}
	for _, c := range obstructions {
		cell, err := g.seedCell(c)
		if err != nil {
			return nil, err
		}
		cell.Type = ObsCell
	}
	for id, set := range pinSets {
		for _, c := range set {
			cell, err := g.seedCell(c)
			if err != nil {
				return nil, err
			}
			cell.Type = PinCell
			cell.PinSetID = id
		}
		g.pinSets[id] = append(PinSet{}, set...)
	}
	return g, nil
}

// seedCell fetches a cell for seeding, rejecting out-of-bounds and
// already-claimed coordinates.
func (g *Grid) seedCell(c Coord) (*Cell, error) {
	if !g.InBounds(c) {
		return nil, fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	cell := g.CellAt(c)
	if cell.Type != BlankCell {
		return nil, fmt.Errorf("%w: %s already %s", ErrCellClash, c, cell.Type)
	}
	return cell, nil
}

// DimX returns the grid width.
func (g *Grid) DimX() int { return g.dimX }

// DimY returns the grid height.
func (g *Grid) DimY() int { return g.dimY }

// InBounds reports whether the coordinate lies inside the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.WithinBounds(g.dimX, g.dimY)
}

// CellAt returns the cell at the given coordinate, or nil when out of
// bounds.
func (g *Grid) CellAt(c Coord) *Cell {
	if !g.InBounds(c) {
		return nil
	}
	return g.cells[c.X][c.Y]
}

// NeighborCoordsOf returns the in-bounds subset of the four orthogonal
// neighbors, always enumerated left, right, above, below. The fixed
// order gives the search algorithms deterministic tie-breaking.
func (g *Grid) NeighborCoordsOf(c Coord) []Coord {
	neighbors := make([]Coord, 0, 4)
	for _, n := range [4]Coord{c.Left(), c.Right(), c.Above(), c.Below()} {
		if g.InBounds(n) {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

// PinSets returns the pin sets keyed by pin-set id. The returned map
// is the grid's own registry; callers must not mutate it.
func (g *Grid) PinSets() map[int]PinSet {
	return g.pinSets
}

// ForEachCell invokes fn for every cell in column-major order.
func (g *Grid) ForEachCell(fn func(*Cell)) {
	for x := 0; x < g.dimX; x++ {
		for y := 0; y < g.dimY; y++ {
			fn(g.cells[x][y])
		}
	}
}

// ClearWorkingValues resets per-search scratch (working value and A*
// scratch) on every cell. Complexity: O(dimX*dimY).
func (g *Grid) ClearWorkingValues() {
	g.ForEachCell(func(c *Cell) { c.ResetWorking() })
}

// Clone returns a fully independent deep copy of the grid.
func (g *Grid) Clone() *Grid {
	clone := &Grid{}
	clone.CopyState(g)
	return clone
}

// CopyState makes g a deep copy of other: cells, pin sets, and the
// connection registry. Registry pointers are re-homed through an
// identity map so that a connection appearing at many coordinates is
// cloned exactly once and the two grids share no Connection instances.
//
// Complexity: O(dimX*dimY + registry entries).
func (g *Grid) CopyState(other *Grid) {
	g.dimX = other.dimX
	g.dimY = other.dimY
	g.cells = make([][]*Cell, other.dimX)
	for x := 0; x < other.dimX; x++ {
		g.cells[x] = make([]*Cell, other.dimY)
		for y := 0; y < other.dimY; y++ {
			g.cells[x][y] = other.cells[x][y].clone()
		}
	}
	g.pinSets = make(map[int]PinSet, len(other.pinSets))
	for id, set := range other.pinSets {
		g.pinSets[id] = append(PinSet{}, set...)
	}
	g.conn = make(map[Coord][]*Connection, len(other.conn))
	rehomed := make(map[*Connection]*Connection)
	for coord, conns := range other.conn {
		entries := make([]*Connection, 0, len(conns))
		for _, cn := range conns {
			nc, ok := rehomed[cn]
			if !ok {
				nc = cn.clone()
				rehomed[cn] = nc
			}
			entries = append(entries, nc)
		}
		g.conn[coord] = entries
	}
}

// ConnectionsAt returns the connections registered at a coordinate.
func (g *Grid) ConnectionsAt(c Coord) []*Connection {
	return g.conn[c]
}

// AddConnEntry registers a (coordinate, connection) pair.
func (g *Grid) AddConnEntry(c Coord, cn *Connection) {
	g.conn[c] = append(g.conn[c], cn)
}

// RemoveConnEntry removes the single (coordinate, connection) entry.
// Removing an entry that is not present is a programming error and
// panics.
func (g *Grid) RemoveConnEntry(c Coord, cn *Connection) {
	entries := g.conn[c]
	for i, e := range entries {
		if e == cn {
			entries = append(entries[:i], entries[i+1:]...)
			if len(entries) == 0 {
				delete(g.conn, c)
			} else {
				g.conn[c] = entries
			}
			return
		}
	}
	panic(fmt.Sprintf("spatial: no registry entry for connection at %s", c))
}

// Connections returns every distinct registered connection.
func (g *Grid) Connections() []*Connection {
	seen := make(map[*Connection]bool)
	var conns []*Connection
	for _, entries := range g.conn {
		for _, cn := range entries {
			if !seen[cn] {
				seen[cn] = true
				conns = append(conns, cn)
			}
		}
	}
	return conns
}

// CountSegments returns the number of distinct registered connections.
func (g *Grid) CountSegments() int {
	return len(g.Connections())
}

// CountCells counts cells of the given types. With no types it counts
// every cell (dimX*dimY).
func (g *Grid) CountCells(types ...CellType) int {
	if len(types) == 0 {
		return g.dimX * g.dimY
	}
	want := make(map[CellType]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	count := 0
	g.ForEachCell(func(c *Cell) {
		if want[c.Type] {
			count++
		}
	})
	return count
}
