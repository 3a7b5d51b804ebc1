// Package render groups the output renderers for skill trees.
//
// The [nodelink] subpackage draws a laid-out tree as a node-link diagram:
// one box per skill, colored by its progression state, at the position
// computed by the layout engine, with arrows from prerequisites to the
// skills they unlock.
//
//	res, _ := layout.Compute(tree.Skills, tree.Connections, layout.Options{})
//	dot := nodelink.ToDOT(tree, res, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// [nodelink]: github.com/matzehuels/skilltree/pkg/render/nodelink
package render
