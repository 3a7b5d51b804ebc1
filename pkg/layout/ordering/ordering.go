package ordering

import "github.com/matzehuels/skilltree/pkg/dag"

// Orderer is an interface for within-rank ordering algorithms.
// An orderer determines the sequence of nodes along the secondary axis in
// each row to minimize edge crossings.
//
// Implementations must be deterministic: the same graph, built in the same
// insertion order, yields the same orders.
type Orderer interface {
	OrderRows(g *dag.DAG) map[int][]string
}

// DefaultPasses is the number of sweeps [Barycentric] runs when Passes is 0.
const DefaultPasses = 24

// InputOrder keeps every row in node insertion order. It is the baseline the
// heuristics start from and is useful in tests.
type InputOrder struct{}

// OrderRows implements [Orderer].
func (InputOrder) OrderRows(g *dag.DAG) map[int][]string {
	orders := make(map[int][]string, g.RowCount())
	for _, row := range g.RowIDs() {
		orders[row] = dag.NodeIDs(g.NodesInRow(row))
	}
	return orders
}
