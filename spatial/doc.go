// Package spatial defines the grid data model for the pinroute maze
// router: integer coordinates with four-way adjacency, the cell
// taxonomy (pin, obstruction, routed, blank), placed-wire connections,
// and the Grid that ties them together.
//
// A Grid is constructed once from problem data and then mutated
// exclusively by a router and its algorithms. Deep cloning
// (Clone/CopyState) snapshots a grid before speculative ripping and
// restores it on rollback; cloned grids share no mutable state, and
// the connection registry is re-homed through an identity map so that
// a connection spanning many coordinates is cloned exactly once.
package spatial
