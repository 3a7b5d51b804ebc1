package transform

import "github.com/matzehuels/skilltree/pkg/dag"

// AssignLayers assigns nodes to rows (ranks) based on their depth in the
// graph.
//
// AssignLayers uses a longest-path algorithm over a topological order. Each
// node is placed at one plus the maximum row of any of its parents, so:
//   - Nodes without prerequisites (in-degree 0) are at row 0
//   - All parents are strictly above their children
//   - Each node is pushed as deep as its longest prerequisite chain
//
// Existing row assignments in the DAG are overwritten.
//
// # Cycles
//
// Cyclic graphs have no layering. AssignLayers returns the
// [*errors.CyclicGraphError] from [dag.DAG.TopoSort] and leaves rows
// untouched.
//
// # Performance
//
// Time complexity is O(V + E), where V is nodes and E is edges.
func AssignLayers(g *dag.DAG) error {
	order, err := g.TopoSort()
	if err != nil {
		return err
	}

	rows := make(map[string]int, len(order))
	for _, id := range order {
		row := rows[id]
		for _, child := range g.Children(id) {
			if row+1 > rows[child] {
				rows[child] = row + 1
			}
		}
	}

	g.SetRows(rows)
	return nil
}
