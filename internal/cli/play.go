package cli

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skilltree/pkg/catalog"
	"github.com/matzehuels/skilltree/pkg/pipeline"
	"github.com/matzehuels/skilltree/pkg/progression"
	"github.com/matzehuels/skilltree/pkg/session"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// playCommand creates the play command for browsing and upgrading trees.
func (c *CLI) playCommand() *cobra.Command {
	var noCache bool
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "play [catalog...]",
		Short: "Browse skill trees and spend points interactively",
		Long: `Browse skill trees and spend points interactively.

Skills are listed rank by rank, in layout order. Upgrades and downgrades
follow the same rules as the HTTP server: player level gates, point costs,
prerequisites and dependency safety. Press s to save the current tree back
to its catalog file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlay(cmd.Context(), args, opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runPlay(ctx context.Context, inputs []string, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	mgr := session.NewManager(c.Logger)
	paths := make(map[string]string, len(inputs))
	orders := make(map[string][]string, len(inputs))
	spinner := newSpinnerWithContext(ctx, "Loading skill trees...")
	spinner.Start()
	for _, input := range inputs {
		spinner.SetMessage("Laying out " + input + "...")
		t, err := loadTree(ctx, input)
		if err != nil {
			spinner.StopWithError("Load failed")
			return fmt.Errorf("load catalog %s: %w", input, err)
		}
		if err := mgr.Add(t); err != nil {
			spinner.StopWithError("Load failed")
			return fmt.Errorf("%s: %w", input, err)
		}
		snap, err := runner.Snapshot(ctx, t, opts)
		if err != nil {
			spinner.StopWithError("Layout failed")
			return fmt.Errorf("layout %s: %w", input, err)
		}
		paths[t.ID] = input
		orders[t.ID] = rankOrder(snap)
	}
	spinner.Stop()

	model := newPlayModel(ctx, mgr, orders, func(t skilltree.Tree) error {
		return catalog.Export(t, paths[t.ID])
	})
	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}

// rankOrder lists skill IDs by rank, then by position within the rank.
func rankOrder(snap *pipeline.Snapshot) []string {
	nodes := slices.Clone(snap.Nodes)
	slices.SortStableFunc(nodes, func(a, b pipeline.Node) int {
		return cmp.Or(
			cmp.Compare(a.Rank, b.Rank),
			cmp.Compare(a.X, b.X),
			cmp.Compare(a.Y, b.Y),
		)
	})
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// =============================================================================
// playModel - Interactive skill tree browser
// =============================================================================

// playModel is the bubbletea model for the play command.
type playModel struct {
	ctx    context.Context
	mgr    *session.Manager
	orders map[string][]string // skill IDs per tree, in display order
	save   func(skilltree.Tree) error

	tree    skilltree.Tree
	cursor  int
	message string
	failed  bool
}

func newPlayModel(ctx context.Context, mgr *session.Manager, orders map[string][]string, save func(skilltree.Tree) error) playModel {
	tree, _ := mgr.Active()
	return playModel{ctx: ctx, mgr: mgr, orders: orders, save: save, tree: tree}
}

func (m playModel) Init() tea.Cmd {
	return nil
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	ids := m.orders[m.tree.ID]

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(ids)-1 {
			m.cursor++
		}
	case "+", "enter", "right", "l":
		m = m.step(m.mgr.Upgrade, "Upgraded")
	case "-", "backspace", "left", "h":
		m = m.step(m.mgr.Downgrade, "Downgraded")
	case "tab":
		m = m.nextTree()
	case "s":
		if err := m.save(m.tree); err != nil {
			m.message, m.failed = err.Error(), true
		} else {
			m.message, m.failed = "Saved "+m.tree.ID, false
		}
	}
	return m, nil
}

func (m playModel) step(op func(context.Context, string, string) (skilltree.Tree, error), verb string) playModel {
	id := m.selected()
	if id == "" {
		return m
	}
	tree, err := op(m.ctx, m.tree.ID, id)
	if err != nil {
		m.message, m.failed = err.Error(), true
		return m
	}
	m.tree = tree
	s, _ := tree.Skill(id)
	m.message, m.failed = fmt.Sprintf("%s %s to level %d", verb, id, s.Level), false
	return m
}

func (m playModel) nextTree() playModel {
	trees := m.mgr.List()
	if len(trees) < 2 {
		return m
	}
	i := slices.IndexFunc(trees, func(t skilltree.Tree) bool { return t.ID == m.tree.ID })
	next := trees[(i+1)%len(trees)]
	if err := m.mgr.SetActive(next.ID); err != nil {
		m.message, m.failed = err.Error(), true
		return m
	}
	m.tree, m.cursor, m.message = next, 0, ""
	return m
}

func (m playModel) selected() string {
	ids := m.orders[m.tree.ID]
	if m.cursor < 0 || m.cursor >= len(ids) {
		return ""
	}
	return ids[m.cursor]
}

func (m playModel) View() string {
	var b strings.Builder

	name := m.tree.Name
	if name == "" {
		name = m.tree.ID
	}
	b.WriteString(StyleTitle.Render(name))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  player lv %d · %d points", m.tree.PlayerLevel, m.tree.AvailablePoints)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  + upgrade  - downgrade  tab next tree  s save  q quit"))
	b.WriteString("\n\n")

	ids := m.orders[m.tree.ID]
	states := make([]progression.State, len(ids))
	rows := make([][]string, len(ids))
	for i, id := range ids {
		s, _ := m.tree.Skill(id)
		states[i] = progression.StateOf(m.tree, id)
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		label := s.Name
		if label == "" {
			label = s.ID
		}
		rows[i] = []string{cursor, label, fmt.Sprintf("%d/%d", s.Level, s.MaxLevel), states[i].Icon() + " " + states[i].Label()}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Skill", "Level", "State").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(states) {
				return lipgloss.NewStyle()
			}
			if col == 3 {
				return stateStyles[states[row]]
			}
			if row == m.cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})
	b.WriteString(t.Render())
	b.WriteString("\n\n")

	if id := m.selected(); id != "" {
		b.WriteString(m.detail(id))
		b.WriteString("\n")
	}

	sum := progression.Summarize(m.tree)
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d/%d maxed (%.0f%%) · %d points spent",
		sum.Maxed, sum.Skills, sum.CompletionRatio*100, sum.SpentPoints)))
	b.WriteString("\n")

	if m.message != "" {
		icon := styleIconSuccess.Render(iconSuccess)
		if m.failed {
			icon = styleIconError.Render(iconError)
		}
		b.WriteString(icon + " " + m.message + "\n")
	}
	return b.String()
}

// detail describes what the next upgrade of a skill needs.
func (m playModel) detail(id string) string {
	r, err := progression.Requirements(m.tree, id)
	if err != nil {
		return ""
	}
	s, _ := m.tree.Skill(id)
	var parts []string
	if s.Description != "" {
		parts = append(parts, s.Description)
	}
	if r.Maxed {
		parts = append(parts, "maxed")
	} else {
		parts = append(parts, fmt.Sprintf("next: %d points, player lv %d", r.Cost, r.RequiredPlayerLevel))
	}
	if len(r.MissingPrerequisites) > 0 {
		parts = append(parts, "needs "+strings.Join(r.MissingPrerequisites, ", "))
	}
	if len(r.BlockingDependents) > 0 {
		parts = append(parts, "required by "+strings.Join(r.BlockingDependents, ", "))
	}
	return "  " + listDimStyle.Render(strings.Join(parts, " · "))
}
