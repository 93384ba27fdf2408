package spatial

import "errors"

// Sentinel errors for grid construction.
var (
	// ErrBadDimensions indicates a grid dimension that is not positive.
	ErrBadDimensions = errors.New("spatial: grid dimensions must be positive")
	// ErrOutOfBounds indicates a pin or obstruction outside the grid.
	ErrOutOfBounds = errors.New("spatial: coordinate out of grid bounds")
	// ErrCellClash indicates two seed coordinates claiming one cell.
	ErrCellClash = errors.New("spatial: clashing cell assignment")
)
