package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/skilltree/pkg/layout"
	"github.com/matzehuels/skilltree/pkg/progression"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

// pointsPerInch converts layout units, treated as points, to Graphviz inches.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds cost and the next level gate to node labels.
	Detailed bool
}

// StateColors maps each progression state to its fill color.
var StateColors = map[progression.State]string{
	progression.StateLocked:   "#e5e7eb",
	progression.StateEligible: "#bfdbfe",
	progression.StatePartial:  "#fde68a",
	progression.StateMaxed:    "#bbf7d0",
}

// ToDOT converts a tree and its layout to Graphviz DOT source. Nodes are
// emitted in tree order with pinned positions; edges follow the tree's
// connections. Skills missing from res are emitted unpinned.
func ToDOT(t skilltree.Tree, res layout.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  overlap=true;\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fixedsize=true, width=%s, height=%s, fontsize=14];\n",
		inches(res.Options.NodeWidth), inches(res.Options.NodeHeight))
	buf.WriteString("\n")

	for _, s := range t.Skills {
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(t, s, opts.Detailed)),
			fmt.Sprintf("fillcolor=%q", StateColors[progression.StateOf(t, s.ID)]),
		}
		if x, y, ok := res.Center(s.ID); ok {
			// Graphviz's y axis points up.
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", inches(x), inches(res.Height-y)))
		}
		if s.Icon != "" {
			attrs = append(attrs, fmt.Sprintf("tooltip=%q", s.Icon))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", s.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, c := range t.Connections {
		fmt.Fprintf(&buf, "  %q -> %q;\n", c.Source, c.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(t skilltree.Tree, s skilltree.Skill, detailed bool) string {
	name := s.Name
	if name == "" {
		name = s.ID
	}
	label := fmt.Sprintf("%s\nLv %d/%d", name, s.Level, s.MaxLevel)
	if !detailed || s.IsMaxed() {
		return label
	}
	return label + fmt.Sprintf("\ncost %d, player lv %d", s.Cost, progression.RequiredPlayerLevel(s))
}

func inches(v float64) string {
	return strconv.FormatFloat(v/pointsPerInch, 'f', 3, 64)
}

// RenderSVG renders DOT source produced by [ToDOT] to SVG. The neato engine
// honors pinned positions.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's <svg> tag with one whose viewBox starts
// at the origin and whose size matches it, so the output scales cleanly.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
