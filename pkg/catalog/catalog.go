package catalog

import (
	"github.com/google/uuid"

	errs "github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

type file struct {
	ID              string       `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Name            string       `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Description     string       `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	PlayerLevel     int          `json:"player_level" yaml:"player_level" toml:"player_level"`
	AvailablePoints int          `json:"available_points" yaml:"available_points" toml:"available_points"`
	Skills          []skill      `json:"skills" yaml:"skills" toml:"skills"`
	Connections     []connection `json:"connections,omitempty" yaml:"connections,omitempty" toml:"connections,omitempty"`
}

type skill struct {
	ID             string   `json:"id" yaml:"id" toml:"id"`
	Name           string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Icon           string   `json:"icon,omitempty" yaml:"icon,omitempty" toml:"icon,omitempty"`
	Level          int      `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty"`
	MaxLevel       int      `json:"max_level" yaml:"max_level" toml:"max_level"`
	Cost           int      `json:"cost" yaml:"cost" toml:"cost"`
	RequiredSkills []string `json:"required_skills,omitempty" yaml:"required_skills,omitempty" toml:"required_skills,omitempty"`
	RequiredLevel  int      `json:"required_level,omitempty" yaml:"required_level,omitempty" toml:"required_level,omitempty"`
}

type connection struct {
	Source string `json:"source" yaml:"source" toml:"source"`
	Target string `json:"target" yaml:"target" toml:"target"`
}

// toTree converts a decoded catalog into a validated tree. A missing tree ID
// is replaced by a random UUID. Connections are the explicit ones followed by
// one per requirement, without duplicates.
func (f file) toTree() (skilltree.Tree, error) {
	id := f.ID
	if id == "" {
		id = uuid.NewString()
	} else if err := errs.ValidateTreeID(id); err != nil {
		return skilltree.Tree{}, err
	}

	t := skilltree.Tree{
		ID:              id,
		Name:            f.Name,
		Description:     f.Description,
		PlayerLevel:     f.PlayerLevel,
		AvailablePoints: f.AvailablePoints,
		Skills:          make([]skilltree.Skill, len(f.Skills)),
	}
	for i, s := range f.Skills {
		t.Skills[i] = skilltree.Skill{
			ID:             s.ID,
			Name:           s.Name,
			Description:    s.Description,
			Icon:           s.Icon,
			Level:          s.Level,
			MaxLevel:       s.MaxLevel,
			Cost:           s.Cost,
			RequiredSkills: s.RequiredSkills,
			RequiredLevel:  s.RequiredLevel,
		}
	}
	t.Connections = mergeConnections(f.Connections, t.Skills)
	return skilltree.New(t)
}

func mergeConnections(explicit []connection, skills []skilltree.Skill) []skilltree.Connection {
	seen := make(map[skilltree.Connection]bool)
	var out []skilltree.Connection
	add := func(c skilltree.Connection) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, c := range explicit {
		add(skilltree.Connection{Source: c.Source, Target: c.Target})
	}
	for _, s := range skills {
		for _, req := range s.RequiredSkills {
			add(skilltree.Connection{Source: req, Target: s.ID})
		}
	}
	return out
}

func fromTree(t skilltree.Tree) file {
	f := file{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		PlayerLevel:     t.PlayerLevel,
		AvailablePoints: t.AvailablePoints,
		Skills:          make([]skill, len(t.Skills)),
	}
	for i, s := range t.Skills {
		f.Skills[i] = skill{
			ID:             s.ID,
			Name:           s.Name,
			Description:    s.Description,
			Icon:           s.Icon,
			Level:          s.Level,
			MaxLevel:       s.MaxLevel,
			Cost:           s.Cost,
			RequiredSkills: s.RequiredSkills,
			RequiredLevel:  s.RequiredLevel,
		}
	}
	for _, c := range t.Connections {
		f.Connections = append(f.Connections, connection{Source: c.Source, Target: c.Target})
	}
	return f
}
