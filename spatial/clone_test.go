package spatial_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pinroute/spatial"
)

// cellState is a comparable projection of one cell.
type cellState struct {
	Type     spatial.CellType
	PinSetID int
	Working  int
}

// gridState projects a grid into comparable form: every cell plus the
// per-coordinate connection count.
func gridState(g *spatial.Grid) (map[spatial.Coord]cellState, map[spatial.Coord]int) {
	cells := make(map[spatial.Coord]cellState)
	conns := make(map[spatial.Coord]int)
	g.ForEachCell(func(c *spatial.Cell) {
		cells[c.Coord] = cellState{Type: c.Type, PinSetID: c.PinSetID, Working: c.WorkingValue}
		if n := len(g.ConnectionsAt(c.Coord)); n > 0 {
			conns[c.Coord] = n
		}
	})
	return cells, conns
}

// wireGrid builds a 3x1 grid with one registered wire for clone tests.
func wireGrid(t *testing.T) (*spatial.Grid, *spatial.Connection) {
	t.Helper()
	pins := []spatial.PinSet{{spatial.NewCoord(0, 0), spatial.NewCoord(2, 0)}}
	g, err := spatial.NewGrid(3, 1, nil, pins)
	require.NoError(t, err)

	mid := spatial.NewCoord(1, 0)
	midCell := g.CellAt(mid)
	midCell.Type = spatial.RoutedCell
	midCell.PinSetID = 0

	pair := spatial.PinPair{A: pins[0][0], B: pins[0][1]}
	cn := spatial.NewConnection(pair, []spatial.Coord{pins[0][0], mid, pins[0][1]}, 0)
	for _, c := range cn.RoutedCells {
		g.AddConnEntry(c, cn)
	}
	return g, cn
}

// TestClone_Independent verifies that mutating a clone leaves the
// original untouched.
func TestClone_Independent(t *testing.T) {
	g, _ := wireGrid(t)
	wantCells, wantConns := gridState(g)

	clone := g.Clone()
	cell := clone.CellAt(spatial.NewCoord(1, 0))
	cell.Type = spatial.BlankCell
	cell.PinSetID = spatial.NoPinSet
	cell.WorkingValue = 123
	clone.RemoveConnEntry(spatial.NewCoord(1, 0), clone.ConnectionsAt(spatial.NewCoord(1, 0))[0])

	gotCells, gotConns := gridState(g)
	if diff := cmp.Diff(wantCells, gotCells); diff != "" {
		t.Errorf("original cells changed after clone mutation (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantConns, gotConns); diff != "" {
		t.Errorf("original registry changed after clone mutation (-want +got):\n%s", diff)
	}
}

// TestClone_RehomesConnections verifies that a connection spanning
// several coordinates is cloned exactly once and never shared.
func TestClone_RehomesConnections(t *testing.T) {
	g, cn := wireGrid(t)
	clone := g.Clone()

	cloned := clone.Connections()
	require.Len(t, cloned, 1)
	require.NotSame(t, cn, cloned[0])
	require.Equal(t, cn.Pins, cloned[0].Pins)
	require.Equal(t, cn.RoutedCells, cloned[0].RoutedCells)

	// every coordinate of the clone's registry points at the same
	// single re-homed instance
	for _, c := range cn.RoutedCells {
		entries := clone.ConnectionsAt(c)
		require.Len(t, entries, 1)
		require.Same(t, cloned[0], entries[0])
	}
}

// TestCopyState_RestoresExactly verifies restore-from-backup fidelity.
func TestCopyState_RestoresExactly(t *testing.T) {
	g, cn := wireGrid(t)
	backup := g.Clone()
	wantCells, wantConns := gridState(g)

	// scribble over the original
	for _, c := range cn.RoutedCells {
		g.RemoveConnEntry(c, cn)
	}
	g.CellAt(spatial.NewCoord(1, 0)).Type = spatial.ObsCell
	g.CellAt(spatial.NewCoord(0, 0)).WorkingValue = 55

	g.CopyState(backup)
	gotCells, gotConns := gridState(g)
	if diff := cmp.Diff(wantCells, gotCells); diff != "" {
		t.Errorf("restored cells differ (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantConns, gotConns); diff != "" {
		t.Errorf("restored registry differs (-want +got):\n%s", diff)
	}
}
