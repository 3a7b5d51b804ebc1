package skilltree

import (
	"slices"
)

// Skill is one upgradeable ability in a tree.
//
// Level is the only field that changes after construction, and only through
// the progression package. IsUnlocked mirrors Level > 0.
type Skill struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Icon is a symbolic key such as "sword" or "shield". Resolving it to an
	// image is up to the presentation layer.
	Icon string `json:"icon,omitempty"`

	Level    int `json:"level"`
	MaxLevel int `json:"max_level"`
	Cost     int `json:"cost"`

	// RequiredSkills lists skill IDs that must be unlocked (level > 0) before
	// this skill can be unlocked.
	RequiredSkills []string `json:"required_skills,omitempty"`
	IsUnlocked     bool     `json:"is_unlocked"`

	// RequiredLevel is carried over from catalogs but not consulted: the
	// level gate is always Level*5.
	RequiredLevel int `json:"required_level,omitempty"`
}

// IsMaxed reports whether the skill has reached its maximum level.
func (s Skill) IsMaxed() bool { return s.Level >= s.MaxLevel }

// Requires reports whether id is one of the skill's prerequisites.
func (s Skill) Requires(id string) bool { return slices.Contains(s.RequiredSkills, id) }

// Connection is a prerequisite edge: Target depends on Source.
type Connection struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Tree is the aggregate root of a skill tree: its skills, prerequisite edges
// and the player resources that gate upgrades.
//
// Trees are values. Operations in the progression package return a new Tree
// and never modify the one they were given; use [Tree.Clone] before changing a
// tree by hand.
type Tree struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description,omitempty"`
	PlayerLevel     int          `json:"player_level"`
	AvailablePoints int          `json:"available_points"`
	Skills          []Skill      `json:"skills"`
	Connections     []Connection `json:"connections"`
}

// New validates t and returns a normalized copy. IsUnlocked is recomputed from
// Level for every skill.
//
// Structural problems are reported with their dedicated types: a connection
// to an unknown skill yields [*errors.InvalidGraphError] and a cycle yields
// [*errors.CyclicGraphError]. All other problems are collected into one
// INVALID_CATALOG error.
func New(t Tree) (Tree, error) {
	out := t.Clone()
	for i := range out.Skills {
		out.Skills[i].IsUnlocked = out.Skills[i].Level > 0
	}
	if err := out.Validate(); err != nil {
		return Tree{}, err
	}
	return out, nil
}

// Clone returns a deep copy of the tree.
func (t Tree) Clone() Tree {
	c := t
	c.Skills = make([]Skill, len(t.Skills))
	for i, s := range t.Skills {
		s.RequiredSkills = slices.Clone(s.RequiredSkills)
		c.Skills[i] = s
	}
	c.Connections = slices.Clone(t.Connections)
	return c
}

// Index returns the position of the skill with the given ID, or -1.
func (t Tree) Index(id string) int {
	return slices.IndexFunc(t.Skills, func(s Skill) bool { return s.ID == id })
}

// Skill returns the skill with the given ID.
func (t Tree) Skill(id string) (Skill, bool) {
	if i := t.Index(id); i >= 0 {
		return t.Skills[i], true
	}
	return Skill{}, false
}

// SkillIDs returns skill IDs in tree order.
func (t Tree) SkillIDs() []string {
	ids := make([]string, len(t.Skills))
	for i, s := range t.Skills {
		ids[i] = s.ID
	}
	return ids
}

// Dependents returns the IDs of skills that list id in RequiredSkills, in
// tree order.
func (t Tree) Dependents(id string) []string {
	var deps []string
	for _, s := range t.Skills {
		if s.ID != id && s.Requires(id) {
			deps = append(deps, s.ID)
		}
	}
	return deps
}
