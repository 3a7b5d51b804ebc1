package ordering

import (
	"slices"

	"github.com/matzehuels/skilltree/pkg/dag"
)

// Barycentric orders rows with the Sugiyama barycenter heuristic followed by
// adjacent-swap refinement.
//
// Each pass sweeps the rows in one direction, alternating top-down and
// bottom-up, and sorts a row by the mean position of each node's neighbors
// in the row just fixed. Nodes without such neighbors keep their current
// position as their key. Sorting is stable, so ties keep the previous order,
// which starts as insertion order.
//
// After every sweep a transpose step swaps adjacent nodes while that strictly
// reduces crossings. The ordering with the fewest crossings over all passes is
// returned; among equal counts the earliest one wins.
type Barycentric struct {
	Passes int // Number of sweeps; 0 means DefaultPasses
}

// OrderRows implements [Orderer].
func (b Barycentric) OrderRows(g *dag.DAG) map[int][]string {
	passes := b.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}

	rows := g.RowIDs()
	orders := InputOrder{}.OrderRows(g)
	if len(rows) == 0 {
		return orders
	}

	best := cloneOrders(orders)
	bestCrossings := dag.CountCrossings(g, orders)

	for pass := 0; pass < passes && bestCrossings > 0; pass++ {
		if pass%2 == 0 {
			for i := 1; i < len(rows); i++ {
				orders[rows[i]] = sortByBarycenter(g, orders[rows[i]], orders[rows[i-1]], true)
			}
		} else {
			for i := len(rows) - 2; i >= 0; i-- {
				orders[rows[i]] = sortByBarycenter(g, orders[rows[i]], orders[rows[i+1]], false)
			}
		}
		transpose(g, rows, orders)

		if c := dag.CountCrossings(g, orders); c < bestCrossings {
			bestCrossings = c
			best = cloneOrders(orders)
		}
	}
	return best
}

// sortByBarycenter returns row sorted by the mean position of each node's
// neighbors in adj. With useParents the neighbors are parents, otherwise
// children.
func sortByBarycenter(g *dag.DAG, row, adj []string, useParents bool) []string {
	adjPos := dag.PosMap(adj)

	type keyed struct {
		id  string
		key float64
	}
	items := make([]keyed, len(row))
	for i, id := range row {
		nbrs := g.Children(id)
		if useParents {
			nbrs = g.Parents(id)
		}
		sum, n := 0, 0
		for _, nb := range nbrs {
			if p, ok := adjPos[nb]; ok {
				sum += p
				n++
			}
		}
		key := float64(i)
		if n > 0 {
			key = float64(sum) / float64(n)
		}
		items[i] = keyed{id, key}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		}
		return 0
	})

	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}

// transpose swaps adjacent nodes whenever that strictly lowers the crossings
// against both neighboring rows, until a full scan makes no swap.
func transpose(g *dag.DAG, rows []int, orders map[int][]string) {
	for improved := true; improved; {
		improved = false
		for idx, r := range rows {
			var upPos, downPos map[string]int
			if idx > 0 {
				upPos = dag.PosMap(orders[rows[idx-1]])
			}
			if idx < len(rows)-1 {
				downPos = dag.PosMap(orders[rows[idx+1]])
			}

			row := orders[r]
			for i := 0; i+1 < len(row); i++ {
				left, right := row[i], row[i+1]
				before := pairCrossings(g, left, right, upPos, downPos)
				after := pairCrossings(g, right, left, upPos, downPos)
				if after < before {
					row[i], row[i+1] = right, left
					improved = true
				}
			}
		}
	}
}

func pairCrossings(g *dag.DAG, left, right string, upPos, downPos map[string]int) int {
	c := 0
	if upPos != nil {
		c += dag.CountPairCrossingsWithPos(g, left, right, upPos, true)
	}
	if downPos != nil {
		c += dag.CountPairCrossingsWithPos(g, left, right, downPos, false)
	}
	return c
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for r, ids := range orders {
		out[r] = slices.Clone(ids)
	}
	return out
}
