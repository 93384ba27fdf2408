package router

import (
	"github.com/katalvlaran/pinroute/spatial"
)

// createConnection registers an accepted route: the interior route
// cells plus both endpoint pins become one Connection, every covered
// coordinate is added to the grid's registry, and blank interior
// cells convert to routed cells of the pair's pin set. Pins and
// already-routed cells keep their type.
func createConnection(pair spatial.PinPair, route []spatial.Coord, pinSetID int, grid *spatial.Grid) *spatial.Connection {
	cells := make([]spatial.Coord, 0, len(route)+2)
	cells = append(cells, pair.A)
	cells = append(cells, route...)
	cells = append(cells, pair.B)
	cn := spatial.NewConnection(pair, cells, pinSetID)
	for _, c := range cells {
		grid.AddConnEntry(c, cn)
		cell := grid.CellAt(c)
		if cell.Type == spatial.BlankCell {
			cell.Type = spatial.RoutedCell
			cell.PinSetID = pinSetID
		}
	}
	return cn
}

// existingConnections returns the distinct connections passing through
// any of the given coordinates, excluding connections of the ignored
// pin set.
func existingConnections(coords []spatial.Coord, grid *spatial.Grid, ignorePinSetID int) []*spatial.Connection {
	seen := make(map[*spatial.Connection]bool)
	var conns []*spatial.Connection
	for _, c := range coords {
		for _, cn := range grid.ConnectionsAt(c) {
			if cn.PinSetID == ignorePinSetID || seen[cn] {
				continue
			}
			seen[cn] = true
			conns = append(conns, cn)
		}
	}
	return conns
}

// ripConnection unregisters a connection and reverts its cells: a
// coordinate no longer covered by any connection returns to blank
// (pins keep their type and pin-set id). Removing a connection that is
// not registered panics inside the grid registry.
func ripConnection(cn *spatial.Connection, grid *spatial.Grid) {
	for _, c := range cn.RoutedCells {
		grid.RemoveConnEntry(c, cn)
		cell := grid.CellAt(c)
		if cell.Type != spatial.PinCell && len(grid.ConnectionsAt(c)) == 0 {
			cell.Type = spatial.BlankCell
			cell.PinSetID = spatial.NoPinSet
		}
	}
}
