package pipeline

import (
	"github.com/matzehuels/skilltree/pkg/cache"
	"github.com/matzehuels/skilltree/pkg/layout"
	"github.com/matzehuels/skilltree/pkg/progression"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

// Node is one skill as a presentation layer draws it.
type Node struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Icon           string   `json:"icon,omitempty"`
	Level          int      `json:"level"`
	MaxLevel       int      `json:"max_level"`
	Cost           int      `json:"cost"`
	RequiredSkills []string `json:"required_skills,omitempty"`

	State               progression.State `json:"state"`
	Eligible            bool              `json:"eligible"`
	RequiredPlayerLevel int               `json:"required_player_level"`

	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Rank int     `json:"rank"`
}

// Snapshot is a render-ready view of a tree: every skill with its position
// and progression state, plus the tree summary.
type Snapshot struct {
	TreeID          string  `json:"tree_id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	PlayerLevel     int     `json:"player_level"`
	AvailablePoints int     `json:"available_points"`
	Direction       string  `json:"direction"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`

	Nodes   []Node                 `json:"nodes"`
	Edges   []skilltree.Connection `json:"edges"`
	Summary progression.Summary    `json:"summary"`

	Tree   skilltree.Tree `json:"-"`
	Layout layout.Result  `json:"-"`
}

// NewSnapshot combines a tree with a layout of its skills.
func NewSnapshot(t skilltree.Tree, res layout.Result) *Snapshot {
	eligible := progression.Eligibility(t)
	s := &Snapshot{
		TreeID:          t.ID,
		Name:            t.Name,
		Description:     t.Description,
		PlayerLevel:     t.PlayerLevel,
		AvailablePoints: t.AvailablePoints,
		Direction:       string(res.Options.Direction),
		Width:           res.Width,
		Height:          res.Height,
		Nodes:           make([]Node, len(t.Skills)),
		Edges:           t.Connections,
		Summary:         progression.Summarize(t),
		Tree:            t,
		Layout:          res,
	}
	for i, sk := range t.Skills {
		p := res.Positions[sk.ID]
		s.Nodes[i] = Node{
			ID:                  sk.ID,
			Name:                sk.Name,
			Description:         sk.Description,
			Icon:                sk.Icon,
			Level:               sk.Level,
			MaxLevel:            sk.MaxLevel,
			Cost:                sk.Cost,
			RequiredSkills:      sk.RequiredSkills,
			State:               progression.StateOf(t, sk.ID),
			Eligible:            eligible[sk.ID],
			RequiredPlayerLevel: progression.RequiredPlayerLevel(sk),
			X:                   p.X,
			Y:                   p.Y,
			Rank:                res.Ranks[sk.ID],
		}
	}
	return s
}

// Node returns the node with the given skill ID.
func (s *Snapshot) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// ContentHash identifies everything a rendering of the snapshot shows:
// the tree as renderers read it (names, costs, levels, icons, requirements,
// resources) and the view derived from it (states, eligibility, positions).
// Editing any skill field changes the hash, even when ids and levels stay.
func (s *Snapshot) ContentHash() string {
	h, _ := cache.HashJSON(struct {
		Tree skilltree.Tree `json:"tree"`
		View *Snapshot      `json:"view"`
	}{s.Tree, s})
	return h
}

// GraphHash is the content hash of a tree's structure: its skill IDs and
// connections, in order. Trees with equal hashes have equal layouts.
func GraphHash(t skilltree.Tree) string {
	h, _ := cache.HashJSON(struct {
		Skills      []string               `json:"skills"`
		Connections []skilltree.Connection `json:"connections"`
	}{t.SkillIDs(), t.Connections})
	return h
}
