package pipeline

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/skilltree/pkg/cache"
	errs "github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/progression"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

func combat(t *testing.T) skilltree.Tree {
	t.Helper()
	tree, err := skilltree.New(skilltree.Tree{
		ID:              "combat-skills",
		Name:            "Combat Mastery",
		PlayerLevel:     10,
		AvailablePoints: 15,
		Skills: []skilltree.Skill{
			{ID: "sword-mastery", Name: "Sword Mastery", MaxLevel: 5, Cost: 3},
			{ID: "shield-defense", Name: "Shield Defense", MaxLevel: 3, Cost: 2, RequiredSkills: []string{"sword-mastery"}},
			{ID: "precision-strike", Name: "Precision Strike", MaxLevel: 4, Cost: 4, RequiredSkills: []string{"sword-mastery", "shield-defense"}},
		},
		Connections: []skilltree.Connection{
			{Source: "sword-mastery", Target: "shield-defense"},
			{Source: "shield-defense", Target: "precision-strike"},
			{Source: "sword-mastery", Target: "precision-strike"},
		},
	})
	if err != nil {
		t.Fatalf("skilltree.New: %v", err)
	}
	return tree
}

func fileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"dot", false},
		{"json", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	var opts Options
	opts.SetLayoutDefaults()

	if opts.Direction != string(DefaultDirection) {
		t.Errorf("Direction = %q, want %q", opts.Direction, DefaultDirection)
	}
	if opts.NodeWidth != DefaultNodeWidth || opts.NodeHeight != DefaultNodeHeight {
		t.Errorf("footprint = %gx%g", opts.NodeWidth, opts.NodeHeight)
	}
	if opts.NodeSpacing != DefaultNodeSpacing || opts.RankSpacing != DefaultRankSpacing {
		t.Errorf("spacing = %g/%g", opts.NodeSpacing, opts.RankSpacing)
	}
	if opts.ComponentSpacing != opts.NodeSpacing {
		t.Errorf("ComponentSpacing = %g, want NodeSpacing", opts.ComponentSpacing)
	}
	if opts.Passes != DefaultPasses {
		t.Errorf("Passes = %d, want %d", opts.Passes, DefaultPasses)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	var opts Options
	opts.SetRenderDefaults()
	if !reflect.DeepEqual(opts.Formats, []string{FormatSVG}) {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}

	opts = Options{Formats: []string{FormatJSON}}
	opts.SetRenderDefaults()
	if !reflect.DeepEqual(opts.Formats, []string{FormatJSON}) {
		t.Errorf("explicit Formats overwritten: %v", opts.Formats)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Direction: "lr"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first call: %v", err)
	}
	first := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if opts.Direction != "LR" {
		t.Errorf("Direction = %q, want LR", opts.Direction)
	}
	if !reflect.DeepEqual(first.Formats, opts.Formats) || first.Passes != opts.Passes {
		t.Error("second call changed options")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"bad direction", Options{Direction: "diagonal"}},
		{"negative passes", Options{Passes: -1}},
		{"bad format", Options{Formats: []string{"pdf"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestComputeLayout_Cache(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	tree := combat(t)

	first, hit, err := r.ComputeLayoutWithCacheInfo(ctx, tree, Options{})
	if err != nil {
		t.Fatalf("ComputeLayout: %v", err)
	}
	if hit {
		t.Error("first call should miss")
	}

	second, hit, err := r.ComputeLayoutWithCacheInfo(ctx, tree, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("second call should hit")
	}
	if !reflect.DeepEqual(first.Positions, second.Positions) || !reflect.DeepEqual(first.Ranks, second.Ranks) {
		t.Errorf("cached layout differs\n got: %+v\nwant: %+v", second, first)
	}
	if second.Options.NodeWidth != DefaultNodeWidth {
		t.Errorf("cached layout lost options: %+v", second.Options)
	}

	// Progression does not change the structure, so the layout is reused.
	upgraded := progression.Upgrade(tree, "sword-mastery")
	if _, hit, _ := r.ComputeLayoutWithCacheInfo(ctx, upgraded, Options{}); !hit {
		t.Error("progression change should reuse the cached layout")
	}

	if _, hit, _ := r.ComputeLayoutWithCacheInfo(ctx, tree, Options{Refresh: true}); hit {
		t.Error("Refresh should bypass the cache")
	}
	if _, hit, _ := r.ComputeLayoutWithCacheInfo(ctx, tree, Options{Direction: "LR"}); hit {
		t.Error("different direction should miss")
	}
}

func TestComputeLayout_Errors(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	tree := combat(t)
	tree.Connections = append(tree.Connections, skilltree.Connection{Source: "precision-strike", Target: "sword-mastery"})

	_, err := r.ComputeLayout(ctx, tree, Options{})
	if !errs.Is(err, errs.ErrCodeCyclicGraph) {
		t.Errorf("ComputeLayout(cycle) = %v, want CYCLIC_GRAPH", err)
	}
	if _, err := r.ComputeLayout(ctx, combat(t), Options{Direction: "up"}); err == nil {
		t.Error("invalid direction should fail")
	}
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	tree := progression.Upgrade(combat(t), "sword-mastery")

	snap, err := r.Snapshot(ctx, tree, Options{})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.TreeID != "combat-skills" || len(snap.Nodes) != 3 || len(snap.Edges) != 3 {
		t.Fatalf("Snapshot = %+v", snap)
	}

	tests := []struct {
		id    string
		state progression.State
		rank  int
	}{
		{"sword-mastery", progression.StatePartial, 0},
		{"shield-defense", progression.StateEligible, 1},
		{"precision-strike", progression.StateLocked, 2},
	}
	for _, tt := range tests {
		n, ok := snap.Node(tt.id)
		if !ok {
			t.Fatalf("Node(%q) missing", tt.id)
		}
		if n.State != tt.state || n.Rank != tt.rank {
			t.Errorf("Node(%q) = state %v rank %d, want %v %d", tt.id, n.State, n.Rank, tt.state, tt.rank)
		}
		if n.Eligible != (tt.state != progression.StateLocked) {
			t.Errorf("Node(%q).Eligible = %v", tt.id, n.Eligible)
		}
	}
	if snap.Summary.SpentPoints != 3 || snap.AvailablePoints != 12 {
		t.Errorf("summary = %+v, points %d", snap.Summary, snap.AvailablePoints)
	}
	if _, ok := snap.Node("ghost"); ok {
		t.Error("Node(ghost) should be missing")
	}
}

func TestContentHash(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	tree := combat(t)

	a, _ := r.Snapshot(ctx, tree, Options{})
	b, _ := r.Snapshot(ctx, tree, Options{})
	if a.ContentHash() != b.ContentHash() {
		t.Error("ContentHash should be deterministic")
	}

	edits := map[string]func(*skilltree.Tree){
		"upgrade":     func(t *skilltree.Tree) { *t = progression.Upgrade(*t, "sword-mastery") },
		"cost":        func(t *skilltree.Tree) { t.Skills[0].Cost = 20 },
		"max level":   func(t *skilltree.Tree) { t.Skills[1].MaxLevel = 9 },
		"name":        func(t *skilltree.Tree) { t.Skills[0].Name = "Axe Mastery" },
		"description": func(t *skilltree.Tree) { t.Skills[2].Description = "Strike true" },
		"icon":        func(t *skilltree.Tree) { t.Skills[0].Icon = "sword" },
		"tree name":   func(t *skilltree.Tree) { t.Name = "Combat" },
	}
	for name, edit := range edits {
		t.Run(name, func(t *testing.T) {
			edited := tree.Clone()
			edit(&edited)
			c, err := r.Snapshot(ctx, edited, Options{})
			if err != nil {
				t.Fatal(err)
			}
			if a.ContentHash() == c.ContentHash() {
				t.Error("ContentHash should change")
			}
		})
	}

	if GraphHash(tree) != GraphHash(progression.Upgrade(tree, "sword-mastery")) {
		t.Error("GraphHash should ignore progression")
	}
}

func TestExecute_CatalogEditRendersAfresh(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	tree := combat(t)
	opts := Options{Formats: []string{FormatDOT}}

	first, err := r.Execute(ctx, tree, opts)
	if err != nil {
		t.Fatal(err)
	}

	// Same ids, levels and resources; only the skill content changes.
	edited := tree.Clone()
	edited.Skills[0].Name = "Axe Mastery"
	edited.Skills[0].Cost = 20
	second, err := r.Execute(ctx, edited, opts)
	if err != nil {
		t.Fatal(err)
	}

	if !second.CacheInfo.LayoutHit {
		t.Error("layout should still come from the cache")
	}
	if second.CacheInfo.RenderHit {
		t.Fatal("edited catalog served a cached render")
	}
	if node, _ := second.Snapshot.Node("sword-mastery"); node.Eligible {
		t.Error("sword-mastery costs more than the available points")
	}
	dot := string(second.Artifacts[FormatDOT])
	if dot == string(first.Artifacts[FormatDOT]) || !strings.Contains(dot, "Axe Mastery") {
		t.Errorf("DOT not re-rendered:\n%s", dot)
	}
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	snap, err := r.Snapshot(ctx, combat(t), Options{})
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := Render(snap, Options{Formats: []string{FormatDOT, FormatJSON}, Detailed: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	dot := string(artifacts[FormatDOT])
	if !strings.HasPrefix(dot, "digraph G {") || !strings.Contains(dot, `"sword-mastery" -> "shield-defense";`) {
		t.Errorf("unexpected DOT:\n%s", dot)
	}
	if !strings.Contains(dot, `cost 3, player lv 0`) {
		t.Errorf("detailed labels missing:\n%s", dot)
	}

	var decoded struct {
		TreeID string `json:"tree_id"`
		Nodes  []struct {
			ID    string `json:"id"`
			State string `json:"state"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(artifacts[FormatJSON], &decoded); err != nil {
		t.Fatalf("decode JSON artifact: %v", err)
	}
	if decoded.TreeID != "combat-skills" || len(decoded.Nodes) != 3 || decoded.Nodes[0].State != "eligible" {
		t.Errorf("JSON artifact = %+v", decoded)
	}

	if _, err := Render(snap, Options{Formats: []string{"gif"}}); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	tree := combat(t)
	opts := Options{Formats: []string{FormatDOT, FormatJSON}}

	res, err := r.Execute(ctx, tree, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.NodeCount != 3 || res.Stats.EdgeCount != 3 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v", res.CacheInfo)
	}
	if len(res.Artifacts) != 2 {
		t.Errorf("got %d artifacts, want 2", len(res.Artifacts))
	}

	again, err := r.Execute(ctx, tree, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v", again.CacheInfo)
	}
	if string(again.Artifacts[FormatDOT]) != string(res.Artifacts[FormatDOT]) {
		t.Error("cached DOT differs")
	}

	// New progression state renders afresh on the cached layout.
	moved, err := r.Execute(ctx, progression.Upgrade(tree, "sword-mastery"), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !moved.CacheInfo.LayoutHit || moved.CacheInfo.RenderHit {
		t.Errorf("after upgrade CacheInfo = %+v", moved.CacheInfo)
	}
}
