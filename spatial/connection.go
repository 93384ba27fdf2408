package spatial

// Connection records one placed wire: the pin pair it serves, the
// owning pin set, and every coordinate the wire passes through
// (interior cells plus both endpoint pins).
//
// Connections exist only while registered in a Grid's connection
// registry: they are created when a route is accepted and destroyed
// when it is ripped.
type Connection struct {
	Pins        PinPair
	PinSetID    int
	RoutedCells []Coord
}

// NewConnection builds a connection over the given cells.
func NewConnection(pins PinPair, cells []Coord, pinSetID int) *Connection {
	return &Connection{
		Pins:        pins,
		PinSetID:    pinSetID,
		RoutedCells: cells,
	}
}

// Empty reports whether the connection covers no cells.
func (c *Connection) Empty() bool {
	return len(c.RoutedCells) == 0
}

// clone returns an independent copy with its own cell list.
func (c *Connection) clone() *Connection {
	cells := make([]Coord, len(c.RoutedCells))
	copy(cells, c.RoutedCells)
	return &Connection{Pins: c.Pins, PinSetID: c.PinSetID, RoutedCells: cells}
}
