// Package pinroute is an educational VLSI-style maze router.
//
// Given a rectangular grid with obstruction cells and several pin sets,
// it finds orthogonal wire routes that connect all pins within each set
// while avoiding obstructions and illegal overlap with wires of other
// sets.
//
// Subpackages:
//
//   - spatial: grid data model (coordinates, cells, connections, grid)
//   - problem: problem-file parsing and validation
//   - record:  observer sink for per-step grid snapshots
//   - alg:     single-pair search algorithms (Lee-Moore BFS, A*)
//   - router:  suite scheduler with rip-and-reroute
//   - serve:   SSE publisher for live snapshots
//   - view:    terminal grid viewer
//
// The cmd/pinroute command wires these together behind a CLI.
package pinroute
