package ordering_test

import (
	"fmt"

	"github.com/matzehuels/skilltree/pkg/dag"
	"github.com/matzehuels/skilltree/pkg/layout/ordering"
)

func ExampleBarycentric() {
	// Two prerequisites unlocking two skills in crossed input order
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "sword", Row: 0})
	_ = g.AddNode(dag.Node{ID: "bow", Row: 0})
	_ = g.AddNode(dag.Node{ID: "volley", Row: 1})
	_ = g.AddNode(dag.Node{ID: "parry", Row: 1})
	_ = g.AddEdge(dag.Edge{From: "sword", To: "parry"})
	_ = g.AddEdge(dag.Edge{From: "bow", To: "volley"})

	fmt.Println("Initial crossings:", dag.CountCrossings(g, ordering.InputOrder{}.OrderRows(g)))

	orders := ordering.Barycentric{}.OrderRows(g)
	fmt.Println("Row 0:", orders[0])
	fmt.Println("Row 1:", orders[1])
	fmt.Println("After ordering:", dag.CountCrossings(g, orders))
	// Output:
	// Initial crossings: 1
	// Row 0: [sword bow]
	// Row 1: [parry volley]
	// After ordering: 0
}
