// Package skilltree defines the skill tree data model: skills, prerequisite
// connections and the tree aggregate holding player resources.
//
// A tree is built once from a static catalog with [New], which validates it,
// and afterwards only replaced by the progression package. Connection
// endpoints must name existing skills and the connection graph must be
// acyclic; [Graph] exposes that graph as a [dag.DAG] for the layout engine.
//
// [dag.DAG]: github.com/matzehuels/skilltree/pkg/dag.DAG
package skilltree
