package router_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/pinroute/problem"
	"github.com/katalvlaran/pinroute/record"
	"github.com/katalvlaran/pinroute/router"
	"github.com/katalvlaran/pinroute/spatial"
)

// SuiteScenarios drives RouteSuite through the end-to-end routing
// scenarios with both algorithms.
type SuiteScenarios struct {
	suite.Suite
	alg router.Alg
}

func TestSuiteScenarios_LeeMoore(t *testing.T) {
	suite.Run(t, &SuiteScenarios{alg: router.AlgLeeMoore})
}

func TestSuiteScenarios_AStar(t *testing.T) {
	suite.Run(t, &SuiteScenarios{alg: router.AlgAStar})
}

// route builds a grid for the problem and runs the suite on it.
func (s *SuiteScenarios) route(p *problem.Problem, mutate func(*router.Settings)) (bool, *spatial.Grid) {
	s.T().Helper()
	settings := router.DefaultSettings()
	settings.Alg = s.alg
	if mutate != nil {
		mutate(&settings)
	}
	rt, err := router.New(p, settings)
	s.Require().NoError(err)

	grid, err := p.Grid()
	s.Require().NoError(err)
	ok := rt.RouteSuite(context.Background(), p.PinSets, grid, nil)
	return ok, grid
}

// requireScratchClear asserts working values are reset after the run.
func (s *SuiteScenarios) requireScratchClear(g *spatial.Grid) {
	s.T().Helper()
	g.ForEachCell(func(c *spatial.Cell) {
		s.Require().Equal(spatial.UnsetWorkingValue, c.WorkingValue)
		s.Require().Nil(c.Scratch)
	})
}

// TestStraightLine is the open 11x1 problem: success with exactly the
// nine interior cells routed.
func (s *SuiteScenarios) TestStraightLine() {
	p := &problem.Problem{
		DimX: 11, DimY: 1,
		PinSets: []spatial.PinSet{{spatial.NewCoord(0, 0), spatial.NewCoord(10, 0)}},
	}
	ok, grid := s.route(p, nil)
	s.Require().True(ok)
	s.Require().True(grid.AllPinsRouted())
	s.Require().Equal(9, grid.CountCells(spatial.RoutedCell))
	for x := 1; x <= 9; x++ {
		s.Require().Equal(spatial.RoutedCell, grid.CellAt(spatial.NewCoord(x, 0)).Type)
	}
	s.Require().Equal(1, grid.CountSegments())
	s.requireScratchClear(grid)
}

// TestBlockedLine is the walled 11x1 problem: failure, and the final
// rollback leaves no routed cell behind.
func (s *SuiteScenarios) TestBlockedLine() {
	p := &problem.Problem{
		DimX: 11, DimY: 1,
		Obstructions: []spatial.Coord{
			spatial.NewCoord(4, 0), spatial.NewCoord(5, 0), spatial.NewCoord(6, 0),
		},
		PinSets: []spatial.PinSet{{spatial.NewCoord(0, 0), spatial.NewCoord(10, 0)}},
	}
	ok, grid := s.route(p, nil)
	s.Require().False(ok)
	s.Require().False(grid.AllPinsRouted())
	s.Require().Equal(0, grid.CountCells(spatial.RoutedCell))
	s.requireScratchClear(grid)
}

// TestThreeRows routes two sets across an open 11x3 grid and checks
// the column occupancy envelope.
func (s *SuiteScenarios) TestThreeRows() {
	p := &problem.Problem{
		DimX: 11, DimY: 3,
		PinSets: []spatial.PinSet{
			{spatial.NewCoord(0, 0), spatial.NewCoord(10, 1)},
			{spatial.NewCoord(0, 1), spatial.NewCoord(10, 2)},
		},
	}
	ok, grid := s.route(p, nil)
	s.Require().True(ok)
	s.Require().True(grid.AllPinsRouted())

	routedInColumn := func(x int) int {
		count := 0
		for y := 0; y < 3; y++ {
			if grid.CellAt(spatial.NewCoord(x, y)).Type == spatial.RoutedCell {
				count++
			}
		}
		return count
	}
	for x := 1; x <= 9; x++ {
		n := routedInColumn(x)
		s.Require().GreaterOrEqual(n, 2, "column %d", x)
		s.Require().LessOrEqual(n, 3, "column %d", x)
	}
	// edge columns hold the pins; at most dimY - pin sets cells remain
	s.Require().LessOrEqual(routedInColumn(0), 1)
	s.Require().LessOrEqual(routedInColumn(10), 1)
	s.requireScratchClear(grid)
}

// TestThreeRowsWalled adds a full-height wall: failure and a clean
// final rollback.
func (s *SuiteScenarios) TestThreeRowsWalled() {
	p := &problem.Problem{
		DimX: 11, DimY: 3,
		Obstructions: []spatial.Coord{
			spatial.NewCoord(5, 0), spatial.NewCoord(5, 1), spatial.NewCoord(5, 2),
		},
		PinSets: []spatial.PinSet{
			{spatial.NewCoord(0, 0), spatial.NewCoord(10, 1)},
			{spatial.NewCoord(0, 1), spatial.NewCoord(10, 2)},
		},
	}
	ok, grid := s.route(p, nil)
	s.Require().False(ok)
	s.Require().False(grid.AllPinsRouted())
	s.Require().Equal(0, grid.CountCells(spatial.RoutedCell))
	s.requireScratchClear(grid)
}

// TestRipAndReroute crosses a horizontal and a vertical pair on a
// grid tall enough for the ripped wire to be rerouted underneath.
// The first-placed wire blocks the second outright; success requires
// one rip-and-reroute cycle.
func (s *SuiteScenarios) TestRipAndReroute() {
	p := &problem.Problem{
		DimX: 5, DimY: 6,
		PinSets: []spatial.PinSet{
			{spatial.NewCoord(0, 2), spatial.NewCoord(4, 2)},
			{spatial.NewCoord(2, 0), spatial.NewCoord(2, 4)},
		},
	}
	ok, grid := s.route(p, nil)
	s.Require().True(ok)
	s.Require().True(grid.AllPinsRouted())
	s.Require().Equal(2, grid.CountSegments())
	s.requireScratchClear(grid)
}

// TestRipDisabled keeps the 5x5 cross blocked: with rip-and-reroute
// off one of the two pairs must fail.
func (s *SuiteScenarios) TestRipDisabled() {
	p := &problem.Problem{
		DimX: 5, DimY: 5,
		PinSets: []spatial.PinSet{
			{spatial.NewCoord(0, 2), spatial.NewCoord(4, 2)},
			{spatial.NewCoord(2, 0), spatial.NewCoord(2, 4)},
		},
	}
	ok, grid := s.route(p, func(st *router.Settings) { st.RipAndReroute = false })
	s.Require().False(ok)
	s.Require().False(grid.AllPinsRouted())
	s.requireScratchClear(grid)
}

// TestThreePinSet connects a three-pin set through shared trunks.
func (s *SuiteScenarios) TestThreePinSet() {
	p := &problem.Problem{
		DimX: 5, DimY: 5,
		PinSets: []spatial.PinSet{{
			spatial.NewCoord(0, 0),
			spatial.NewCoord(4, 0),
			spatial.NewCoord(4, 4),
		}},
	}
	ok, grid := s.route(p, nil)
	s.Require().True(ok)
	s.Require().True(grid.AllPinsRouted())
	s.requireScratchClear(grid)
}

// TestSoftHalt exits cleanly on a canceled context without routing.
func (s *SuiteScenarios) TestSoftHalt() {
	p := &problem.Problem{
		DimX: 11, DimY: 1,
		PinSets: []spatial.PinSet{{spatial.NewCoord(0, 0), spatial.NewCoord(10, 0)}},
	}
	settings := router.DefaultSettings()
	settings.Alg = s.alg
	rt, err := router.New(p, settings)
	s.Require().NoError(err)
	grid, err := p.Grid()
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok := rt.RouteSuite(ctx, p.PinSets, grid, nil)
	s.Require().False(ok)
	s.Require().Equal(0, grid.CountCells(spatial.RoutedCell))
}

// TestObserverReceivesResults stores result-level snapshots and opens
// one steps list per sweep.
func TestObserverReceivesResults(t *testing.T) {
	p := &problem.Problem{
		DimX: 11, DimY: 1,
		PinSets: []spatial.PinSet{{spatial.NewCoord(0, 0), spatial.NewCoord(10, 0)}},
	}
	settings := router.DefaultSettings()
	settings.LogVerbosity = record.ResultsOnly
	rt, err := router.New(p, settings)
	require.NoError(t, err)

	col := record.NewSolveCollection("test")
	records := record.New(settings.LogVerbosity, record.ResultsOnly, col)
	grid, err := p.Grid()
	require.NoError(t, err)

	ok := rt.RouteSuite(context.Background(), p.PinSets, grid, records)
	require.True(t, ok)
	require.Len(t, col.SolveSteps, 1, "one sweep, one steps list")
	require.NotEmpty(t, col.SolveSteps[0].StepGrids)

	// stored snapshots are frozen copies of the routing history
	last := col.SolveSteps[0].StepGrids[len(col.SolveSteps[0].StepGrids)-1]
	require.Equal(t, 9, last.CountCells(spatial.RoutedCell))
}

// TestSettings_LoadAndValidate covers the yaml settings layer.
func TestSettings_LoadAndValidate(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/settings.yaml"
	data := []byte("alg: leemoore\nmax_rerun_count: 5\nrip_penalty: 9000\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	s, err := router.LoadSettings(path)
	require.NoError(t, err)
	require.Equal(t, router.AlgLeeMoore, s.Alg)
	require.Equal(t, 5, s.MaxRerunCount)
	require.Equal(t, 9000, s.RipPenalty)
	// untouched keys keep their defaults
	require.True(t, s.RipAndReroute)
	require.Equal(t, 2, s.RipAndRerouteCount)

	bad := router.DefaultSettings()
	bad.Alg = "dijkstra"
	_, err = router.New(p5(), bad)
	require.ErrorIs(t, err, router.ErrBadSettings)
}

func p5() *problem.Problem {
	return &problem.Problem{
		DimX: 5, DimY: 5,
		PinSets: []spatial.PinSet{{spatial.NewCoord(0, 0), spatial.NewCoord(4, 4)}},
	}
}
