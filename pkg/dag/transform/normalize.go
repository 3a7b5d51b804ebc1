package transform

import "github.com/matzehuels/skilltree/pkg/dag"

// Normalize prepares a graph for ordering: it assigns ranks with
// [AssignLayers] and splits long edges with [Subdivide]. On a cyclic graph it
// returns the cycle error and leaves g unchanged.
func Normalize(g *dag.DAG) error {
	if err := AssignLayers(g); err != nil {
		return err
	}
	Subdivide(g)
	return nil
}
