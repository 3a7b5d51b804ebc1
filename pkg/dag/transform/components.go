package transform

import "github.com/matzehuels/skilltree/pkg/dag"

// Components splits the graph into weakly connected components.
//
// Each component lists its node IDs in insertion order, and components are
// ordered by their earliest inserted node. Edge direction is ignored.
// Subdivider nodes belong to the component of the edge they split.
func Components(g *dag.DAG) [][]string {
	nodes := g.Nodes()
	comp := make(map[string]int, len(nodes))
	var count int

	for _, n := range nodes {
		if _, seen := comp[n.ID]; seen {
			continue
		}
		comp[n.ID] = count
		stack := []string{n.ID}
		for len(stack) > 0 {
			curr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, nbrs := range [][]string{g.Children(curr), g.Parents(curr)} {
				for _, nb := range nbrs {
					if _, seen := comp[nb]; !seen {
						comp[nb] = count
						stack = append(stack, nb)
					}
				}
			}
		}
		count++
	}

	result := make([][]string, count)
	for _, n := range nodes {
		c := comp[n.ID]
		result[c] = append(result[c], n.ID)
	}
	return result
}
