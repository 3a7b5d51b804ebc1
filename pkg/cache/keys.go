package cache

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey addresses a computed layout of the graph with the given
	// content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// RenderKey addresses a rendered artifact of the layout with the given
	// content hash.
	RenderKey(layoutHash string, opts RenderKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a layout.
type LayoutKeyOpts struct {
	Direction        string  `json:"direction"`
	NodeWidth        float64 `json:"node_width"`
	NodeHeight       float64 `json:"node_height"`
	NodeSpacing      float64 `json:"node_spacing"`
	RankSpacing      float64 `json:"rank_spacing"`
	ComponentSpacing float64 `json:"component_spacing"`
	Passes           int     `json:"passes"`
}

// RenderKeyOpts holds every option that changes a rendered artifact.
type RenderKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`

	// ContentHash covers the rendered tree content: skill fields, levels,
	// resources and the states they produce.
	ContentHash string `json:"content_hash"`
}

// DefaultKeyer produces keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(layoutHash string, opts RenderKeyOpts) string {
	return hashKey("render", layoutHash, opts)
}
