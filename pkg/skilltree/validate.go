package skilltree

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/skilltree/pkg/dag"
	errs "github.com/matzehuels/skilltree/pkg/errors"
)

// Validate checks every invariant of the tree:
//   - skill IDs are valid and unique
//   - 0 <= Level <= MaxLevel, MaxLevel > 0, Cost > 0
//   - IsUnlocked == (Level > 0)
//   - AvailablePoints >= 0
//   - required skills and connection endpoints exist
//   - connections and requirements together form a DAG
//
// Field problems are aggregated into a single INVALID_CATALOG error. Unknown
// connection endpoints and cycles are reported as [*errors.InvalidGraphError]
// and [*errors.CyclicGraphError].
func (t Tree) Validate() error {
	if err := t.validateFields(); err != nil {
		return err
	}

	g, err := Graph(t.Skills, t.Connections)
	if err != nil {
		return err
	}
	for _, s := range t.Skills {
		for _, req := range s.RequiredSkills {
			if !slices.Contains(g.Parents(s.ID), req) {
				_ = g.AddEdge(dag.Edge{From: req, To: s.ID})
			}
		}
	}
	return g.Validate()
}

func (t Tree) validateFields() error {
	var problems []string

	if t.AvailablePoints < 0 {
		problems = append(problems, fmt.Sprintf("available points must be >= 0, got %d", t.AvailablePoints))
	}
	if t.PlayerLevel < 0 {
		problems = append(problems, fmt.Sprintf("player level must be >= 0, got %d", t.PlayerLevel))
	}

	ids := make(map[string]bool, len(t.Skills))
	for _, s := range t.Skills {
		if err := errs.ValidateSkillID(s.ID); err != nil {
			problems = append(problems, errs.UserMessage(err))
			continue
		}
		if ids[s.ID] {
			problems = append(problems, fmt.Sprintf("duplicate skill ID: %q", s.ID))
		}
		ids[s.ID] = true
	}

	for _, s := range t.Skills {
		if s.MaxLevel <= 0 {
			problems = append(problems, fmt.Sprintf("skill %q: max level must be positive, got %d", s.ID, s.MaxLevel))
		}
		if s.Cost <= 0 {
			problems = append(problems, fmt.Sprintf("skill %q: cost must be positive, got %d", s.ID, s.Cost))
		}
		if s.Level < 0 || (s.MaxLevel > 0 && s.Level > s.MaxLevel) {
			problems = append(problems, fmt.Sprintf("skill %q: level %d outside [0, %d]", s.ID, s.Level, s.MaxLevel))
		}
		if s.IsUnlocked != (s.Level > 0) {
			problems = append(problems, fmt.Sprintf("skill %q: unlocked flag %t disagrees with level %d", s.ID, s.IsUnlocked, s.Level))
		}
		for _, req := range s.RequiredSkills {
			switch {
			case req == s.ID:
				problems = append(problems, fmt.Sprintf("skill %q requires itself", s.ID))
			case !ids[req]:
				problems = append(problems, fmt.Sprintf("skill %q references nonexistent prerequisite %q", s.ID, req))
			}
		}
	}

	if len(problems) > 0 {
		return errs.New(errs.ErrCodeInvalidCatalog, "skill tree validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// Graph builds a DAG with one node per skill, in input order, and one edge
// per connection.
//
// A connection whose endpoint is not a skill yields [*errors.InvalidGraphError].
// Empty or duplicate skill IDs yield an INVALID_INPUT error. Graph does not
// check acyclicity; call Validate or TopoSort on the result.
func Graph(skills []Skill, connections []Connection) (*dag.DAG, error) {
	g := dag.New()
	for _, s := range skills {
		if err := g.AddNode(dag.Node{ID: s.ID}); err != nil {
			switch {
			case errors.Is(err, dag.ErrDuplicateNodeID):
				return nil, errs.New(errs.ErrCodeInvalidInput, "duplicate skill ID: %q", s.ID)
			default:
				return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "skill at position %d", g.NodeCount())
			}
		}
	}

	for _, c := range connections {
		if err := g.AddEdge(dag.Edge{From: c.Source, To: c.Target}); err != nil {
			missing := c.Target
			if errors.Is(err, dag.ErrUnknownSourceNode) {
				missing = c.Source
			}
			return nil, &errs.InvalidGraphError{Source: c.Source, Target: c.Target, Missing: missing}
		}
	}
	return g, nil
}
