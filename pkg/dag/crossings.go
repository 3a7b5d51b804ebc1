package dag

import (
	"maps"
	"slices"
)

// CountCrossings returns the total number of edge crossings for the given row
// orderings, summed over each pair of consecutive rows. The orders map holds
// node IDs in order along the secondary axis for each row. Rows missing from
// the map are treated as empty.
//
//	orders := map[int][]string{
//	    0: {"sword", "bow"},
//	    1: {"parry", "riposte", "volley"},
//	}
//	crossings := dag.CountCrossings(g, orders)
//
// Only edges between consecutive rows are counted, so run the graph through
// transform.Subdivide first when it has long edges.
func CountCrossings(g *DAG, orders map[int][]string) int {
	rows := slices.Sorted(maps.Keys(orders))
	crossings := 0
	for i := 0; i < len(rows)-1; i++ {
		r := rows[i]
		crossings += CountLayerCrossings(g, orders[r], orders[r+1])
	}
	return crossings
}

// CountLayerCrossings counts crossings between two adjacent rows. Edges
// (u1,v1) and (u2,v2) cross when u1 is left of u2 but v1 is right of v2, so
// with edges sorted by upper position the count is the number of inversions
// among lower positions. A binary indexed tree finds them in O(E log V).
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	lowerPos := PosMap(lower)

	// Iterating upper in order and sorting each node's targets yields edges
	// sorted by (upper, lower).
	var targets []int
	for _, id := range upper {
		start := len(targets)
		for _, child := range g.Children(id) {
			if pos, ok := lowerPos[child]; ok {
				targets = append(targets, pos)
			}
		}
		slices.Sort(targets[start:])
	}

	seen := make(bit, len(lower)+1)
	crossings := 0
	for i, pos := range targets {
		crossings += i - seen.prefix(pos)
		seen.add(pos)
	}
	return crossings
}

// bit is a 1-indexed binary indexed tree over row positions.
type bit []int

// add records one edge ending at pos.
func (b bit) add(pos int) {
	for i := pos + 1; i < len(b); i += i & -i {
		b[i]++
	}
}

// prefix returns how many recorded edges end at or before pos.
func (b bit) prefix(pos int) int {
	n := 0
	for i := pos + 1; i > 0; i -= i & -i {
		n += b[i]
	}
	return n
}

// CountPairCrossings counts crossings between the edges of left and right,
// with left placed first, against the neighbouring row adjOrder. useParents
// selects the row above. Transposition compares (a, b) against (b, a) to
// decide a swap.
func CountPairCrossings(g *DAG, left, right string, adjOrder []string, useParents bool) int {
	return CountPairCrossingsWithPos(g, left, right, PosMap(adjOrder), useParents)
}

// CountPairCrossingsWithPos is [CountPairCrossings] with a precomputed
// position map. Neighbours not in adjPos are ignored.
func CountPairCrossingsWithPos(g *DAG, left, right string, adjPos map[string]int, useParents bool) int {
	var lnbr, rnbr []string
	if useParents {
		lnbr = g.Parents(left)
		rnbr = g.Parents(right)
	} else {
		lnbr = g.Children(left)
		rnbr = g.Children(right)
	}

	crossings := 0
	for _, ln := range lnbr {
		lp, ok := adjPos[ln]
		if !ok {
			continue
		}
		for _, rn := range rnbr {
			if rp, ok := adjPos[rn]; ok && lp > rp {
				crossings++
			}
		}
	}
	return crossings
}
