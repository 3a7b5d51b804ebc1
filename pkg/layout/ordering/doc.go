// Package ordering provides algorithms for arranging the nodes of each rank
// of a layered skill graph along the secondary axis.
//
// # The Ordering Problem
//
// Prerequisite edges between consecutive ranks cross whenever two skills are
// placed in the opposite order of the skills they unlock. Finding the
// ordering with the fewest crossings is NP-hard, so layouts rely on
// heuristics.
//
// # Barycentric Heuristic
//
// The [Barycentric] orderer implements the classic Sugiyama barycenter method.
// It positions each node near the average position of its neighbors, then
// improves the result through alternating top-down and bottom-up sweeps:
//
//  1. Start from insertion order in every row
//  2. Sort each row by its parents' (or children's) average positions
//  3. Swap adjacent nodes that reduce crossings
//  4. Alternate sweep direction for several passes
//  5. Return the best ordering found
//
// Every sort is stable and every comparison is strict, so identical input
// always yields identical output.
//
// # Usage
//
// The [Orderer] interface allows algorithms to be used interchangeably:
//
//	var orderer ordering.Orderer = ordering.Barycentric{Passes: 24}
//	orders := orderer.OrderRows(g) // map[row][]nodeID
//
// The graph must already be layered and subdivided (see the transform
// package), because only edges between consecutive rows are considered.
package ordering
