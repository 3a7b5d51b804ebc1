// Package dag provides a directed acyclic graph organized into rows (ranks)
// for layered skill-tree layouts.
//
// # Overview
//
// Skill trees are drawn as layered diagrams: prerequisites sit on one rank and
// the skills they unlock on the ranks that follow. This package provides the
// data structure the layout engine works on. Nodes are assigned to rows, and
// after layering and subdivision every edge connects consecutive rows.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]. Nodes must have unique IDs and edges can only connect
// existing nodes:
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "sword-mastery"})
//	g.AddNode(dag.Node{ID: "shield-defense"})
//	g.AddEdge(dag.Edge{From: "sword-mastery", To: "shield-defense"})
//
// Query the graph structure with [DAG.Children], [DAG.Parents],
// [DAG.NodesInRow] and related methods.
//
// # Determinism
//
// Every node records its insertion position in [Node.Index]. All listing
// methods return nodes in insertion order, and [DAG.TopoSort] breaks ties by
// index, so the same input always produces the same layout.
//
// # Acyclicity
//
// [DAG.Validate] and [DAG.TopoSort] use gonum's topological sort. A cycle is
// reported as a [github.com/matzehuels/skilltree/pkg/errors.CyclicGraphError]
// listing the nodes along the cycle.
//
// # Node Types
//
//   - [NodeKindRegular]: nodes supplied by the caller (skills)
//   - [NodeKindSubdivider]: virtual nodes that break long edges into segments
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] use a Fenwick tree to count
// inversions in O(E log V) time. The ordering heuristics call them after
// every sweep to keep the best ordering seen.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Read-only operations such as
// counting crossings can run in parallel on a graph nobody is modifying.
//
// The [transform] subpackage assigns ranks and subdivides long edges.
//
// [transform]: github.com/matzehuels/skilltree/pkg/dag/transform
package dag
