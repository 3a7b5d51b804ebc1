package dag

import (
	"errors"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	errs "github.com/matzehuels/skilltree/pkg/errors"
)

// TopoSort returns node IDs in a topological order: every node appears after
// all of its parents. Ties are broken by insertion index, so the order is
// stable for identical input.
//
// If the graph has a cycle, TopoSort returns a [*errors.CyclicGraphError]
// whose Cycle lists the nodes along one cycle with the first node repeated
// at the end. Self edges are reported as a cycle of length one.
func (d *DAG) TopoSort() ([]string, error) {
	for _, e := range d.edges {
		if e.From == e.To {
			return nil, &errs.CyclicGraphError{Cycle: []string{e.From, e.From}}
		}
	}

	g := simple.NewDirectedGraph()
	for _, n := range d.order {
		g.AddNode(simple.Node(n.Index))
	}
	for _, e := range d.edges {
		g.SetEdge(g.NewEdge(simple.Node(d.nodes[e.From].Index), simple.Node(d.nodes[e.To].Index)))
	}

	sorted, err := topo.SortStabilized(g, byID)
	if err != nil {
		var u topo.Unorderable
		if errors.As(err, &u) {
			return nil, &errs.CyclicGraphError{Cycle: d.cycleIn(u)}
		}
		return nil, err
	}

	ids := make([]string, len(sorted))
	for i, n := range sorted {
		ids[i] = d.order[n.ID()].ID
	}
	return ids, nil
}

func byID(nodes []graph.Node) {
	slices.SortFunc(nodes, func(a, b graph.Node) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})
}

// cycleIn picks the strongly connected component holding the earliest
// inserted node and walks the shortest cycle through that node.
func (d *DAG) cycleIn(components topo.Unorderable) []string {
	var (
		members map[string]bool
		start   *Node
	)
	for _, comp := range components {
		for _, gn := range comp {
			n := d.order[gn.ID()]
			if start == nil || n.Index < start.Index {
				start = n
				members = make(map[string]bool, len(comp))
				for _, m := range comp {
					members[d.order[m.ID()].ID] = true
				}
			}
		}
	}
	if start == nil {
		return nil
	}

	prev := map[string]string{}
	queue := []string{start.ID}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, child := range d.outgoing[curr] {
			if !members[child] {
				continue
			}
			if child == start.ID {
				path := []string{start.ID}
				for at := curr; at != start.ID; at = prev[at] {
					path = append(path, at)
				}
				slices.Reverse(path[1:])
				return append(path, start.ID)
			}
			if _, seen := prev[child]; !seen {
				prev[child] = curr
				queue = append(queue, child)
			}
		}
	}
	return []string{start.ID, start.ID}
}
