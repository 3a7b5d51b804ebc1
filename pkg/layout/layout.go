package layout

import (
	"math"
	"strings"

	"github.com/matzehuels/skilltree/pkg/dag"
	"github.com/matzehuels/skilltree/pkg/dag/transform"
	errs "github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/layout/ordering"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

// Direction selects the primary axis ranks advance along.
type Direction string

const (
	TopBottom Direction = "TB" // Ranks stack downward; y grows with rank
	LeftRight Direction = "LR" // Ranks stack rightward; x grows with rank
)

// Default footprint and spacing, in logical units.
const (
	DefaultNodeWidth   = 120.0
	DefaultNodeHeight  = 120.0
	DefaultNodeSpacing = 180.0
	DefaultRankSpacing = 200.0
)

// ParseDirection converts "TB" or "LR" (any case) into a Direction.
// An empty string yields TopBottom.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case "", TopBottom:
		return TopBottom, nil
	case LeftRight:
		return LeftRight, nil
	}
	return "", errs.New(errs.ErrCodeInvalidDirection, "invalid direction %q (must be TB or LR)", s)
}

// Options controls the geometry of a layout. Zero fields take the defaults.
type Options struct {
	Direction Direction

	NodeWidth  float64 // Footprint reserved per node
	NodeHeight float64

	// NodeSpacing is the distance between neighbors in a rank along the
	// secondary axis. RankSpacing is the distance between consecutive ranks
	// along the primary axis. Both are measured corner to corner and must be
	// at least the footprint along their axis.
	NodeSpacing float64
	RankSpacing float64

	// ComponentSpacing separates disconnected components; defaults to
	// NodeSpacing.
	ComponentSpacing float64

	// Orderer arranges nodes within ranks; defaults to ordering.Barycentric.
	Orderer ordering.Orderer
}

// Position is the top-left corner of a node's footprint.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result is a computed layout.
type Result struct {
	Options   Options             `json:"-"`
	Positions map[string]Position `json:"positions"`
	Ranks     map[string]int      `json:"ranks"`

	// Bounding box including footprints.
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Crossings  int     `json:"crossings"`
	Components int     `json:"components"`
}

// Center returns the center of the node's footprint.
func (r Result) Center(id string) (x, y float64, ok bool) {
	p, ok := r.Positions[id]
	if !ok {
		return 0, 0, false
	}
	return p.X + r.Options.NodeWidth/2, p.Y + r.Options.NodeHeight/2, true
}

// Layout computes positions for skills with default geometry. An empty
// direction means TopBottom.
//
// Layout is a pure function: identical input yields identical positions.
// It fails with [*errors.InvalidGraphError] when a connection names an
// unknown skill and with [*errors.CyclicGraphError] when the connections
// contain a cycle. No partial layout is returned.
func Layout(skills []skilltree.Skill, connections []skilltree.Connection, dir Direction) (map[string]Position, error) {
	res, err := Compute(skills, connections, Options{Direction: dir})
	if err != nil {
		return nil, err
	}
	return res.Positions, nil
}

// Compute runs the full layered layout:
//
//  1. Ranks by longest path from skills without prerequisites
//  2. Long edges split into virtual nodes
//  3. Each weakly connected component ordered on its own
//  4. Virtual nodes dropped, each rank centered in its component
//  5. Components packed along the secondary axis in input order
func Compute(skills []skilltree.Skill, connections []skilltree.Connection, opts Options) (Result, error) {
	opts, err := opts.normalize()
	if err != nil {
		return Result{}, err
	}

	g, err := skilltree.Graph(skills, connections)
	if err != nil {
		return Result{}, err
	}
	if err := transform.Normalize(g); err != nil {
		return Result{}, err
	}

	res := Result{
		Options:   opts,
		Positions: make(map[string]Position, len(skills)),
		Ranks:     make(map[string]int, len(skills)),
	}

	offset := 0.0
	for _, comp := range transform.Components(g) {
		sub := subgraph(g, comp)
		orders := opts.Orderer.OrderRows(sub)
		res.Crossings += dag.CountCrossings(sub, orders)
		res.Components++

		ranks, widest := realNodes(sub, orders)
		span := float64(widest-1) * opts.NodeSpacing
		for rank, ids := range ranks {
			start := offset + (span-float64(len(ids)-1)*opts.NodeSpacing)/2
			for i, id := range ids {
				res.Positions[id] = opts.place(float64(rank)*opts.RankSpacing, start+float64(i)*opts.NodeSpacing)
				res.Ranks[id] = rank
			}
		}
		offset += span + opts.ComponentSpacing
	}

	for _, p := range res.Positions {
		res.Width = math.Max(res.Width, p.X+opts.NodeWidth)
		res.Height = math.Max(res.Height, p.Y+opts.NodeHeight)
	}
	return res, nil
}

func (o Options) normalize() (Options, error) {
	dir, err := ParseDirection(string(o.Direction))
	if err != nil {
		return o, err
	}
	o.Direction = dir

	if o.NodeWidth == 0 {
		o.NodeWidth = DefaultNodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = DefaultNodeHeight
	}
	if o.NodeSpacing == 0 {
		o.NodeSpacing = DefaultNodeSpacing
	}
	if o.RankSpacing == 0 {
		o.RankSpacing = DefaultRankSpacing
	}
	if o.ComponentSpacing == 0 {
		o.ComponentSpacing = o.NodeSpacing
	}
	if o.Orderer == nil {
		o.Orderer = ordering.Barycentric{}
	}

	if o.NodeWidth < 0 || o.NodeHeight < 0 {
		return o, errs.New(errs.ErrCodeInvalidInput, "node footprint must be positive, got %gx%g", o.NodeWidth, o.NodeHeight)
	}
	secondary, primary := o.NodeWidth, o.NodeHeight
	if o.Direction == LeftRight {
		secondary, primary = primary, secondary
	}
	if o.NodeSpacing < secondary {
		return o, errs.New(errs.ErrCodeInvalidInput, "node spacing %g is smaller than the node footprint %g", o.NodeSpacing, secondary)
	}
	if o.RankSpacing < primary {
		return o, errs.New(errs.ErrCodeInvalidInput, "rank spacing %g is smaller than the node footprint %g", o.RankSpacing, primary)
	}
	if o.ComponentSpacing < secondary {
		return o, errs.New(errs.ErrCodeInvalidInput, "component spacing %g is smaller than the node footprint %g", o.ComponentSpacing, secondary)
	}
	return o, nil
}

func (o Options) place(primary, secondary float64) Position {
	if o.Direction == LeftRight {
		return Position{X: primary, Y: secondary}
	}
	return Position{X: secondary, Y: primary}
}

// subgraph copies the nodes in ids, with their rows and kinds, and the edges
// between them into a new DAG, keeping insertion order.
func subgraph(g *dag.DAG, ids []string) *dag.DAG {
	sub := dag.New()
	in := make(map[string]bool, len(ids))
	for _, id := range ids {
		n, _ := g.Node(id)
		_ = sub.AddNode(dag.Node{ID: n.ID, Row: n.Row, Kind: n.Kind, MasterID: n.MasterID})
		in[id] = true
	}
	for _, e := range g.Edges() {
		if in[e.From] && in[e.To] {
			_ = sub.AddEdge(e)
		}
	}
	return sub
}

// realNodes strips virtual nodes from orders and reports the size of the
// widest rank.
func realNodes(g *dag.DAG, orders map[int][]string) (map[int][]string, int) {
	ranks := make(map[int][]string, len(orders))
	widest := 0
	for row, ids := range orders {
		for _, id := range ids {
			if n, ok := g.Node(id); ok && !n.IsSubdivider() {
				ranks[row] = append(ranks[row], id)
			}
		}
		widest = max(widest, len(ranks[row]))
	}
	return ranks, widest
}
