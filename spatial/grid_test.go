package spatial_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pinroute/spatial"
)

//----------------------------------------------------------------------------//
// Construction
//----------------------------------------------------------------------------//

// TestNewGrid_Errors verifies constructor validation.
func TestNewGrid_Errors(t *testing.T) {
	cases := []struct {
		name     string
		dimX     int
		dimY     int
		obs      []spatial.Coord
		pinSets  []spatial.PinSet
		wantErr  error
	}{
		{"ZeroWidth", 0, 5, nil, nil, spatial.ErrBadDimensions},
		{"NegativeHeight", 5, -1, nil, nil, spatial.ErrBadDimensions},
		{"ObstructionOutOfBounds", 3, 3, []spatial.Coord{spatial.NewCoord(3, 0)}, nil, spatial.ErrOutOfBounds},
		{"PinOutOfBounds", 3, 3, nil, []spatial.PinSet{{spatial.NewCoord(0, 3)}}, spatial.ErrOutOfBounds},
		{
			"PinOnObstruction", 3, 3,
			[]spatial.Coord{spatial.NewCoord(1, 1)},
			[]spatial.PinSet{{spatial.NewCoord(1, 1)}},
			spatial.ErrCellClash,
		},
		{
			"PinOnPin", 3, 3, nil,
			[]spatial.PinSet{{spatial.NewCoord(1, 1)}, {spatial.NewCoord(1, 1)}},
			spatial.ErrCellClash,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := spatial.NewGrid(tc.dimX, tc.dimY, tc.obs, tc.pinSets)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("NewGrid error = %v; want %v", err, tc.wantErr)
			}
		})
	}
}

// TestNewGrid_Seeding verifies cell types and pin-set ids after
// construction.
func TestNewGrid_Seeding(t *testing.T) {
	obs := []spatial.Coord{spatial.NewCoord(4, 0), spatial.NewCoord(5, 0), spatial.NewCoord(6, 0)}
	pins := []spatial.PinSet{{spatial.NewCoord(0, 0), spatial.NewCoord(10, 0)}}
	g, err := spatial.NewGrid(11, 1, obs, pins)
	require.NoError(t, err)

	for _, c := range obs {
		cell := g.CellAt(c)
		require.Equal(t, spatial.ObsCell, cell.Type)
		require.Equal(t, spatial.NoPinSet, cell.PinSetID)
	}
	for _, c := range pins[0] {
		cell := g.CellAt(c)
		require.Equal(t, spatial.PinCell, cell.Type)
		require.Equal(t, 0, cell.PinSetID)
	}
	for _, x := range []int{1, 2, 3, 7, 8, 9} {
		cell := g.CellAt(spatial.NewCoord(x, 0))
		require.Equal(t, spatial.BlankCell, cell.Type)
		require.Equal(t, spatial.NoPinSet, cell.PinSetID)
		require.Equal(t, spatial.UnsetWorkingValue, cell.WorkingValue)
	}
}

//----------------------------------------------------------------------------//
// Queries
//----------------------------------------------------------------------------//

// TestNeighborCoordsOf checks the in-bounds filter and the fixed
// left, right, above, below enumeration order.
func TestNeighborCoordsOf(t *testing.T) {
	g, err := spatial.NewGrid(3, 3, nil, nil)
	require.NoError(t, err)

	center := g.NeighborCoordsOf(spatial.NewCoord(1, 1))
	want := []spatial.Coord{
		spatial.NewCoord(0, 1),
		spatial.NewCoord(2, 1),
		spatial.NewCoord(1, 0),
		spatial.NewCoord(1, 2),
	}
	require.Equal(t, want, center)

	corner := g.NeighborCoordsOf(spatial.NewCoord(0, 0))
	require.Equal(t, []spatial.Coord{spatial.NewCoord(1, 0), spatial.NewCoord(0, 1)}, corner)
}

// TestCellAt_OutOfBounds returns nil beyond the grid.
func TestCellAt_OutOfBounds(t *testing.T) {
	g, err := spatial.NewGrid(2, 2, nil, nil)
	require.NoError(t, err)
	require.Nil(t, g.CellAt(spatial.NewCoord(2, 0)))
	require.Nil(t, g.CellAt(spatial.BlankCoord()))
}

// TestCountCells counts by type, and everything with no filter.
func TestCountCells(t *testing.T) {
	obs := []spatial.Coord{spatial.NewCoord(1, 0)}
	pins := []spatial.PinSet{{spatial.NewCoord(0, 0), spatial.NewCoord(2, 2)}}
	g, err := spatial.NewGrid(3, 3, obs, pins)
	require.NoError(t, err)

	require.Equal(t, 9, g.CountCells())
	require.Equal(t, 1, g.CountCells(spatial.ObsCell))
	require.Equal(t, 2, g.CountCells(spatial.PinCell))
	require.Equal(t, 0, g.CountCells(spatial.RoutedCell))
	require.Equal(t, 6, g.CountCells(spatial.BlankCell))
	require.Equal(t, 7, g.CountCells(spatial.BlankCell, spatial.ObsCell))
}

// TestClearWorkingValues resets scratch everywhere.
func TestClearWorkingValues(t *testing.T) {
	g, err := spatial.NewGrid(4, 4, nil, nil)
	require.NoError(t, err)

	c := g.CellAt(spatial.NewCoord(2, 2))
	c.WorkingValue = 700
	c.Scratch = &spatial.AStarScratch{From: spatial.NewCoord(1, 2), DFromSource: 100}

	g.ClearWorkingValues()
	g.ForEachCell(func(cell *spatial.Cell) {
		require.Equal(t, spatial.UnsetWorkingValue, cell.WorkingValue)
		require.Nil(t, cell.Scratch)
	})
}

//----------------------------------------------------------------------------//
// Connection registry
//----------------------------------------------------------------------------//

// TestConnRegistry exercises add, lookup, distinct listing, and the
// panic on removing a missing entry.
func TestConnRegistry(t *testing.T) {
	pins := []spatial.PinSet{{spatial.NewCoord(0, 0), spatial.NewCoord(2, 0)}}
	g, err := spatial.NewGrid(3, 1, nil, pins)
	require.NoError(t, err)

	pair := spatial.PinPair{A: spatial.NewCoord(0, 0), B: spatial.NewCoord(2, 0)}
	cells := []spatial.Coord{spatial.NewCoord(0, 0), spatial.NewCoord(1, 0), spatial.NewCoord(2, 0)}
	cn := spatial.NewConnection(pair, cells, 0)
	for _, c := range cells {
		g.AddConnEntry(c, cn)
	}

	require.Len(t, g.ConnectionsAt(spatial.NewCoord(1, 0)), 1)
	require.Len(t, g.Connections(), 1)
	require.Equal(t, 1, g.CountSegments())

	g.RemoveConnEntry(spatial.NewCoord(1, 0), cn)
	require.Empty(t, g.ConnectionsAt(spatial.NewCoord(1, 0)))
	require.Panics(t, func() {
		g.RemoveConnEntry(spatial.NewCoord(1, 0), cn)
	})
}
