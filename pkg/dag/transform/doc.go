// Package transform provides graph transformations that prepare a DAG for
// layered layout.
//
// # Overview
//
// A skill catalog arrives as a plain set of nodes and prerequisite edges.
// Before nodes can be ordered within ranks, the graph must be brought into a
// form where:
//
//   - Every node has a rank (its longest prerequisite chain)
//   - Edges connect only consecutive ranks
//
// [Normalize] applies both steps in order.
//
// # Layer Assignment
//
// [AssignLayers] computes the row for each node from a topological order.
// Skills without prerequisites land on row 0. A cycle is reported as an
// error, since a cyclic graph has no layering.
//
// # Edge Subdivision
//
// [Subdivide] breaks long edges (spanning multiple rows) into chains of
// single-row hops by inserting virtual nodes:
//
//	Before: sword (row 0) → whirlwind (row 2)
//	After:  sword → sword_sub_1 → whirlwind
//
// Virtual nodes take part in crossing reduction so long edges are routed
// around other skills, then disappear from the final positions.
//
// # Components
//
// [Components] lists weakly connected components in input order. Layout
// places each component independently and packs them side by side.
//
// # Usage
//
//	if err := transform.Normalize(g); err != nil {
//	    return err // *errors.CyclicGraphError
//	}
package transform
