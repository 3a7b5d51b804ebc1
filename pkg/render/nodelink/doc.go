// Package nodelink renders skill trees as node-link diagrams.
//
// # Overview
//
// [ToDOT] turns a tree and its computed layout into Graphviz DOT source.
// Every node is pinned at its layout position, so Graphviz only draws the
// boxes and routes the edges; it never moves a skill. [RenderSVG] renders
// that source in-process.
//
//	dot := nodelink.ToDOT(tree, res, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Styling
//
// Nodes are filled by progression state: grey for locked, blue for
// eligible, amber for partially leveled and green for maxed skills. Labels
// show the skill name and level; with Detailed they also show the cost and
// the player level the next upgrade needs.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], which embeds Graphviz
// as WebAssembly, so no system Graphviz installation is needed.
package nodelink
