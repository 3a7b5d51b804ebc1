// Package pkg provides the core libraries for Skilltree, a layout and
// progression engine for RPG-style skill trees.
//
// # Overview
//
// A skill tree is a set of skills joined by prerequisite connections. Each
// skill has a level up to a maximum, a point cost per level, and a list of
// skills that must be unlocked first. The pkg directory is organized into
// these areas:
//
//  1. [skilltree] - The data model and structural validation
//  2. [progression] - Upgrade and downgrade rules, states and summaries
//  3. [layout] - Layered positions for drawing a tree
//  4. [catalog] - Reading and writing catalogs (JSON, YAML, TOML)
//  5. [pipeline] - Orchestration (catalog → layout → snapshot → render)
//
// # Architecture
//
// The typical data flow:
//
//	Catalog file (JSON/YAML/TOML)
//	         ↓
//	    [catalog] package (decode + validate)
//	         ↓
//	    [layout] package (ranks, ordering, coordinates)
//	         ↓
//	    [pipeline] package (snapshot with progression state)
//	         ↓
//	    SVG/DOT/JSON output
//
// # Quick Start
//
//	tree, _ := catalog.Load("combat-mastery.toml")
//
//	tree, err := progression.TryUpgrade(tree, "sword-mastery")
//	if err != nil {
//	    // errors.Is(err, progression.ErrInsufficientPoints), ...
//	}
//
//	res, _ := layout.Compute(tree.Skills, tree.Connections, layout.Options{})
//	svg, _ := nodelink.RenderSVG(nodelink.ToDOT(tree, res, nodelink.Options{}))
//
// # Main Packages
//
// [dag] - Directed acyclic graph organized into rows, with crossing counts and
// cycle detection. [dag/transform] assigns longest-path ranks, splits the
// graph into connected components, and subdivides edges that span more than
// one rank.
//
// [layout/ordering] - Within-rank ordering (barycentric sweeps with
// transposition) to reduce edge crossings.
//
// [render/nodelink] - Node-link diagrams via Graphviz, nodes colored by
// progression state.
//
// [session] - Concurrent-safe host for several trees, each progressing
// independently, with one active tree.
//
// [cache] - Layout and render caching (file, Redis, null) keyed by content
// hashes.
//
// [errors] - Error codes shared by every package and mapped to HTTP statuses
// by the server.
//
// [observability] - Hooks for layout, progression, cache and HTTP events.
//
// [skilltree]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/skilltree
// [progression]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/progression
// [layout]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/layout
// [layout/ordering]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/layout/ordering
// [catalog]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/catalog
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/pipeline
// [dag]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/dag/transform
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/render/nodelink
// [session]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/session
// [cache]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/observability
package pkg
