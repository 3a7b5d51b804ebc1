// Package layout computes 2-D positions for the skills of a tree using a
// layered (Sugiyama-style) drawing.
//
// # Algorithm
//
// [Compute] runs three phases over the prerequisite graph:
//
//  1. Rank assignment: every skill sits one rank below its deepest
//     prerequisite; skills without prerequisites are on rank 0.
//  2. Ordering: edges spanning several ranks are split into virtual nodes,
//     then each rank is ordered by the barycenter heuristic to reduce
//     crossings. Ties are broken by input order.
//  3. Coordinates: the primary axis (y for [TopBottom], x for [LeftRight]) is
//     rank × RankSpacing; the secondary axis is order × NodeSpacing, with each
//     rank centered within its component.
//
// Every node reserves a fixed footprint (120×120 by default) and spacing is
// never smaller than the footprint, so nodes never overlap.
//
// # Components
//
// Disconnected parts of the graph are laid out independently and packed
// side by side along the secondary axis, in the order their first skill
// appears in the input.
//
// # Errors
//
// A connection naming an unknown skill fails with
// [github.com/matzehuels/skilltree/pkg/errors.InvalidGraphError]; a cycle
// fails with [github.com/matzehuels/skilltree/pkg/errors.CyclicGraphError].
// Layout never returns a partial result.
//
// # Usage
//
//	pos, err := layout.Layout(tree.Skills, tree.Connections, layout.TopBottom)
//	if err != nil {
//	    return err
//	}
//	p := pos["sword-mastery"] // top-left corner
package layout
