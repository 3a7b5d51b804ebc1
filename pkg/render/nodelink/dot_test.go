package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/skilltree/pkg/layout"
	"github.com/matzehuels/skilltree/pkg/progression"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

func combat(t *testing.T) (skilltree.Tree, layout.Result) {
	t.Helper()
	tree, err := skilltree.New(skilltree.Tree{
		ID:              "combat-skills",
		PlayerLevel:     10,
		AvailablePoints: 15,
		Skills: []skilltree.Skill{
			{ID: "sword-mastery", Name: "Sword Mastery", MaxLevel: 5, Cost: 3},
			{ID: "shield-defense", Name: "Shield Defense", MaxLevel: 3, Cost: 2, RequiredSkills: []string{"sword-mastery"}},
			{ID: "precision-strike", Name: "Precision Strike", Icon: "crosshair", MaxLevel: 4, Cost: 4, RequiredSkills: []string{"sword-mastery", "shield-defense"}},
		},
		Connections: []skilltree.Connection{
			{Source: "sword-mastery", Target: "shield-defense"},
			{Source: "shield-defense", Target: "precision-strike"},
		},
	})
	if err != nil {
		t.Fatalf("skilltree.New: %v", err)
	}
	res, err := layout.Compute(tree.Skills, tree.Connections, layout.Options{})
	if err != nil {
		t.Fatalf("layout.Compute: %v", err)
	}
	return tree, res
}

func TestToDOT(t *testing.T) {
	tree, res := combat(t)
	dot := ToDOT(tree, res, Options{})

	wants := []string{
		"digraph G {",
		`node [shape=box, style="rounded,filled", fixedsize=true, width=1.667, height=1.667, fontsize=14];`,
		`"sword-mastery" [label="Sword Mastery\nLv 0/5", fillcolor="#bfdbfe", pos="0.833,6.389!"];`,
		`"shield-defense" [label="Shield Defense\nLv 0/3", fillcolor="#e5e7eb", pos="0.833,3.611!"];`,
		`tooltip="crosshair"`,
		`"sword-mastery" -> "shield-defense";`,
		`"shield-defense" -> "precision-strike";`,
	}
	for _, want := range wants {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}
	if strings.Index(dot, `"sword-mastery" [`) > strings.Index(dot, `"precision-strike" [`) {
		t.Error("nodes not in tree order")
	}
}

func TestToDOT_StateColors(t *testing.T) {
	tree, res := combat(t)
	tree = progression.Upgrade(tree, "sword-mastery")
	tree.Skills[1].Level, tree.Skills[1].IsUnlocked = 3, true

	dot := ToDOT(tree, res, Options{Detailed: true})
	for id, state := range map[string]progression.State{
		"sword-mastery":    progression.StatePartial,
		"shield-defense":   progression.StateMaxed,
		"precision-strike": progression.StateEligible,
	} {
		line := lineFor(dot, id)
		if !strings.Contains(line, StateColors[state]) {
			t.Errorf("%s: want %s fill, got %s", id, state, line)
		}
	}

	if line := lineFor(dot, "sword-mastery"); !strings.Contains(line, `Lv 1/5\ncost 3, player lv 5`) {
		t.Errorf("detailed label missing: %s", line)
	}
	if line := lineFor(dot, "shield-defense"); strings.Contains(line, "cost") {
		t.Errorf("maxed skill should not show cost: %s", line)
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	tree, res := combat(t)
	if ToDOT(tree, res, Options{}) != ToDOT(tree, res, Options{}) {
		t.Error("ToDOT is not deterministic")
	}
}

func TestRenderSVG(t *testing.T) {
	tree, res := combat(t)
	svg, err := RenderSVG(ToDOT(tree, res, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("svg tag not normalized: %.200s", s)
	}
	for _, id := range tree.SkillIDs() {
		if !strings.Contains(s, "<title>"+id+"</title>") {
			t.Errorf("svg missing node %s", id)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s", got)
	}

	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should pass through")
	}
}

func lineFor(dot, id string) string {
	for _, line := range strings.Split(dot, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), `"`+id+`" [`) {
			return line
		}
	}
	return ""
}
