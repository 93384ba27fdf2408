package problem

import (
	"fmt"

	"github.com/katalvlaran/pinroute/spatial"
)

// Problem is a parsed routing problem: grid dimensions, obstruction
// cells, and the pin sets to connect. Immutable once parsed.
type Problem struct {
	DimX, DimY   int
	Obstructions []spatial.Coord
	PinSets      []spatial.PinSet
}

// Validate checks the parsed problem: positive dimensions, at least
// one pin set, all pins and obstructions in bounds, and no coordinate
// claimed by both an obstruction and a pin set. All violations are
// ErrInvalid-wrapped.
func (p *Problem) Validate() error {
	if p.DimX <= 0 || p.DimY <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalid, p.DimX, p.DimY)
	}
	if len(p.PinSets) == 0 {
		return fmt.Errorf("%w: no pin sets", ErrInvalid)
	}
	for _, c := range p.Obstructions {
		if !c.WithinBounds(p.DimX, p.DimY) {
			return fmt.Errorf("%w: obstruction %s out of bounds", ErrInvalid, c)
		}
	}
	obstructed := make(map[spatial.Coord]bool, len(p.Obstructions))
	for _, c := range p.Obstructions {
		obstructed[c] = true
	}
	for id, set := range p.PinSets {
		for _, c := range set {
			if !c.WithinBounds(p.DimX, p.DimY) {
				return fmt.Errorf("%w: pin %s of set %d out of bounds", ErrInvalid, c, id)
			}
			if obstructed[c] {
				return fmt.Errorf("%w: pin %s of set %d clashes with an obstruction", ErrInvalid, c, id)
			}
		}
	}
	return nil
}

// Grid seeds a fresh spatial.Grid from the problem.
func (p *Problem) Grid() (*spatial.Grid, error) {
	return spatial.NewGrid(p.DimX, p.DimY, p.Obstructions, p.PinSets)
}
