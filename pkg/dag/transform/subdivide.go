package transform

import (
	"fmt"

	"github.com/matzehuels/skilltree/pkg/dag"
)

// Subdivide replaces every edge spanning more than one row with a chain of
// single-row edges through virtual subdivider nodes, one per skipped row:
//
//	Before: sword (row 0) → whirlwind (row 3)
//	After:  sword → sword_sub_1 → sword_sub_2 → whirlwind
//
// Crossing counts and barycenter sweeps only look at consecutive rows, so
// they need this. Subdividers carry the edge source as MasterID and are
// dropped by layout before positions are produced.
//
// Subdivider IDs are "<source>_sub_<row>". A clash with an existing ID gets
// a "__2", "__3", ... suffix. Edges that point upward or stay within a row
// are left alone; Subdivide expects rows from [AssignLayers].
func Subdivide(g *dag.DAG) {
	taken := make(map[string]bool, g.NodeCount())
	for _, n := range g.Nodes() {
		taken[n.ID] = true
	}
	reserve := func(master string, row int) string {
		base := fmt.Sprintf("%s_sub_%d", master, row)
		id := base
		for i := 2; taken[id]; i++ {
			id = fmt.Sprintf("%s__%d", base, i)
		}
		taken[id] = true
		return id
	}

	for _, e := range g.Edges() {
		src, _ := g.Node(e.From)
		dst, _ := g.Node(e.To)
		if dst.Row-src.Row < 2 {
			continue
		}

		g.RemoveEdge(e.From, e.To)
		prev := src.ID
		for row := src.Row + 1; row < dst.Row; row++ {
			id := reserve(src.ID, row)
			mustAdd(g.AddNode(dag.Node{ID: id, Row: row, Kind: dag.NodeKindSubdivider, MasterID: src.ID}))
			mustAdd(g.AddEdge(dag.Edge{From: prev, To: id}))
			prev = id
		}
		mustAdd(g.AddEdge(dag.Edge{From: prev, To: dst.ID}))
	}
}

// mustAdd panics on an insertion error. Subdivide only adds fresh IDs and
// edges between nodes it knows exist, so an error is a bug.
func mustAdd(err error) {
	if err != nil {
		panic(fmt.Sprintf("subdivide: %v", err))
	}
}
