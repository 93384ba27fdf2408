// Package view renders live routing snapshots as a character grid in
// the terminal. Pins show as digits, routed cells as letters of their
// pin set, obstructions as '#', blank cells as '.'.
package view

import (
	"context"
	"fmt"
	"strings"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/katalvlaran/pinroute/record"
	"github.com/katalvlaran/pinroute/spatial"
)

// Run opens the terminal UI and renders every live update until ctx
// is canceled or the user quits (q / ctrl-c). Quitting invokes halt,
// which should trigger the router's soft halt.
func Run(ctx context.Context, rec *record.RoutingRecords, halt context.CancelFunc) error {
	if err := ui.Init(); err != nil {
		return fmt.Errorf("view: init terminal: %w", err)
	}
	defer ui.Close()

	grid := widgets.NewParagraph()
	grid.Title = "pinroute"
	width, height := ui.TerminalDimensions()
	grid.SetRect(0, 0, width, height)

	events := ui.PollEvents()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-events:
			switch e.ID {
			case "q", "<C-c>":
				halt()
				return nil
			case "<Resize>":
				payload := e.Payload.(ui.Resize)
				grid.SetRect(0, 0, payload.Width, payload.Height)
				ui.Render(grid)
			}
		case snap := <-rec.Updates():
			grid.Text = RenderString(snap)
			ui.Render(grid)
		}
	}
}

// RenderString draws a grid as rows of runes, top row first.
func RenderString(g *spatial.Grid) string {
	b := new(strings.Builder)
	for y := 0; y < g.DimY(); y++ {
		for x := 0; x < g.DimX(); x++ {
			b.WriteRune(cellRune(g.CellAt(spatial.NewCoord(x, y))))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// cellRune picks the glyph for one cell.
func cellRune(c *spatial.Cell) rune {
	switch c.Type {
	case spatial.PinCell:
		return rune('0' + c.PinSetID%10)
	case spatial.ObsCell:
		return '#'
	case spatial.RoutedCell:
		return rune('a' + c.PinSetID%26)
	default:
		return '.'
	}
}
