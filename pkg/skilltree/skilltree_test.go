package skilltree

import (
	"errors"
	"slices"
	"strings"
	"testing"

	errs "github.com/matzehuels/skilltree/pkg/errors"
)

func combat() Tree {
	return Tree{
		ID:              "combat-skills",
		Name:            "Combat Mastery",
		PlayerLevel:     10,
		AvailablePoints: 15,
		Skills: []Skill{
			{ID: "sword-mastery", Name: "Sword Mastery", MaxLevel: 5, Cost: 3},
			{ID: "shield-defense", Name: "Shield Defense", MaxLevel: 3, Cost: 2, RequiredSkills: []string{"sword-mastery"}},
			{ID: "precision-strike", Name: "Precision Strike", MaxLevel: 4, Cost: 4, RequiredSkills: []string{"sword-mastery", "shield-defense"}},
		},
		Connections: []Connection{
			{Source: "sword-mastery", Target: "shield-defense"},
			{Source: "shield-defense", Target: "precision-strike"},
		},
	}
}

func TestNew(t *testing.T) {
	in := combat()
	in.Skills[0].Level = 2

	got, err := New(in)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !got.Skills[0].IsUnlocked {
		t.Error("IsUnlocked not derived from level")
	}
	if in.Skills[0].IsUnlocked {
		t.Error("New() modified its input")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Tree)
		wantCode errs.Code
		wantMsg  string
	}{
		{"valid", func(*Tree) {}, "", ""},
		{"negative points", func(t *Tree) { t.AvailablePoints = -1 }, errs.ErrCodeInvalidCatalog, "available points"},
		{"duplicate id", func(t *Tree) { t.Skills[1].ID = "sword-mastery" }, errs.ErrCodeInvalidCatalog, "duplicate skill ID"},
		{"bad id", func(t *Tree) { t.Skills[0].ID = "sword mastery" }, errs.ErrCodeInvalidCatalog, "whitespace"},
		{"zero max level", func(t *Tree) { t.Skills[0].MaxLevel = 0 }, errs.ErrCodeInvalidCatalog, "max level"},
		{"zero cost", func(t *Tree) { t.Skills[0].Cost = 0 }, errs.ErrCodeInvalidCatalog, "cost"},
		{"level above max", func(t *Tree) { t.Skills[1].Level, t.Skills[1].IsUnlocked = 4, true }, errs.ErrCodeInvalidCatalog, "outside"},
		{"unlocked at level 0", func(t *Tree) { t.Skills[0].IsUnlocked = true }, errs.ErrCodeInvalidCatalog, "unlocked flag"},
		{"unknown prerequisite", func(t *Tree) { t.Skills[2].RequiredSkills = []string{"ghost"} }, errs.ErrCodeInvalidCatalog, "nonexistent prerequisite"},
		{"self requirement", func(t *Tree) { t.Skills[0].RequiredSkills = []string{"sword-mastery"} }, errs.ErrCodeInvalidCatalog, "requires itself"},
		{"unknown connection target", func(t *Tree) {
			t.Connections = append(t.Connections, Connection{Source: "sword-mastery", Target: "ghost"})
		}, errs.ErrCodeInvalidGraph, "ghost"},
		{"connection cycle", func(t *Tree) {
			t.Connections = append(t.Connections, Connection{Source: "precision-strike", Target: "sword-mastery"})
		}, errs.ErrCodeCyclicGraph, "sword-mastery -> precision-strike -> sword-mastery"},
		{"requirement cycle", func(t *Tree) {
			t.Skills[0].RequiredSkills = []string{"precision-strike"}
		}, errs.ErrCodeCyclicGraph, "cycle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := combat()
			tt.mutate(&tree)
			err := tree.Validate()
			if got := errs.GetCode(err); got != tt.wantCode {
				t.Fatalf("Validate() code = %q, want %q (err = %v)", got, tt.wantCode, err)
			}
			if err != nil && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() = %q, want substring %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidate_AggregatesProblems(t *testing.T) {
	tree := combat()
	tree.AvailablePoints = -5
	tree.Skills[0].Cost = 0
	tree.Skills[1].MaxLevel = 0

	err := tree.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	if n := strings.Count(err.Error(), "\n  - "); n != 3 {
		t.Errorf("Validate() reported %d problems, want 3:\n%v", n, err)
	}
}

func TestGraph(t *testing.T) {
	tree := combat()
	g, err := Graph(tree.Skills, tree.Connections)
	if err != nil {
		t.Fatalf("Graph() error = %v", err)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Errorf("Graph() = %d nodes, %d edges, want 3, 2", g.NodeCount(), g.EdgeCount())
	}

	_, err = Graph(tree.Skills, []Connection{{Source: "ghost", Target: "sword-mastery"}})
	var ige *errs.InvalidGraphError
	if !errors.As(err, &ige) || ige.Missing != "ghost" {
		t.Errorf("Graph(unknown source) = %v, want InvalidGraphError for ghost", err)
	}

	_, err = Graph([]Skill{{ID: "a"}, {ID: "a"}}, nil)
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Graph(duplicate) = %v, want INVALID_INPUT", err)
	}
}

func TestClone(t *testing.T) {
	orig := combat()
	c := orig.Clone()
	c.Skills[2].RequiredSkills[0] = "changed"
	c.Skills[0].Level = 3
	c.Connections[0].Source = "changed"

	if orig.Skills[2].RequiredSkills[0] != "sword-mastery" {
		t.Error("Clone shares RequiredSkills")
	}
	if orig.Skills[0].Level != 0 {
		t.Error("Clone shares Skills")
	}
	if orig.Connections[0].Source != "sword-mastery" {
		t.Error("Clone shares Connections")
	}
}

func TestLookups(t *testing.T) {
	tree := combat()

	if s, ok := tree.Skill("shield-defense"); !ok || s.Cost != 2 {
		t.Errorf("Skill(shield-defense) = %+v, %v", s, ok)
	}
	if _, ok := tree.Skill("ghost"); ok {
		t.Error("Skill(ghost) found")
	}
	if i := tree.Index("precision-strike"); i != 2 {
		t.Errorf("Index() = %d, want 2", i)
	}
	if got := tree.Dependents("sword-mastery"); !slices.Equal(got, []string{"shield-defense", "precision-strike"}) {
		t.Errorf("Dependents() = %v", got)
	}
	if got := tree.SkillIDs(); !slices.Equal(got, []string{"sword-mastery", "shield-defense", "precision-strike"}) {
		t.Errorf("SkillIDs() = %v", got)
	}
}
