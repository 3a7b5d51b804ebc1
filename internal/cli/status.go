package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skilltree/pkg/progression"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

// statusCommand creates the status command for reporting progression state.
func (c *CLI) statusCommand() *cobra.Command {
	var (
		skillID string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "status [catalog]",
		Short: "Show progression state of every skill",
		Long: `Show progression state of every skill.

Prints one row per skill with its level, state (locked, eligible, partial or
maxed), next-level cost and required player level, followed by a summary of
the tree. With --skill, prints what the next upgrade of one skill needs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), args[0], skillID, asJSON)
		},
	}

	cmd.Flags().StringVarP(&skillID, "skill", "s", "", "show upgrade requirements for one skill")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")

	return cmd
}

func runStatus(ctx context.Context, input, skillID string, asJSON bool) error {
	t, err := loadTree(ctx, input)
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", input, err)
	}

	if skillID != "" {
		req, err := progression.Requirements(t, skillID)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(req)
		}
		printRequirement(t, req)
		return nil
	}

	sum := progression.Summarize(t)
	if asJSON {
		return printJSON(sum)
	}

	name := t.Name
	if name == "" {
		name = t.ID
	}
	outln(StyleTitle.Render(name))
	outln(skillTable(t))
	printSummary(sum)
	return nil
}

// skillTable renders one row per skill in catalog order.
func skillTable(t skilltree.Tree) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	states := make([]progression.State, len(t.Skills))

	rows := make([][]string, len(t.Skills))
	for i, s := range t.Skills {
		states[i] = progression.StateOf(t, s.ID)
		name := s.Name
		if name == "" {
			name = s.ID
		}
		cost, gate := "—", "—"
		if !s.IsMaxed() {
			cost = strconv.Itoa(s.Cost)
			gate = strconv.Itoa(progression.RequiredPlayerLevel(s))
		}
		rows[i] = []string{
			name,
			fmt.Sprintf("%d/%d", s.Level, s.MaxLevel),
			states[i].Icon() + " " + states[i].Label(),
			cost,
			gate,
			strings.Join(s.RequiredSkills, ", "),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Skill", "Level", "State", "Cost", "Player Lv", "Requires").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(states) {
				return base
			}
			if col == 2 {
				return stateStyles[states[row]].Padding(0, 1)
			}
			if states[row] == progression.StateLocked {
				return base.Foreground(colorDim)
			}
			return base
		}).
		Render()
}

func printSummary(sum progression.Summary) {
	printKeyValue("Completed", fmt.Sprintf("%d/%d (%.0f%%)", sum.Maxed, sum.Skills, sum.CompletionRatio*100))
	printKeyValue("Unlocked", strconv.Itoa(sum.Unlocked))
	printKeyValue("Eligible", strconv.Itoa(sum.Eligible))
	printKeyValue("Spent", fmt.Sprintf("%d points", sum.SpentPoints))
	printKeyValue("Available", fmt.Sprintf("%d points", sum.AvailablePoints))
	printKeyValue("Player Lv", strconv.Itoa(sum.PlayerLevel))
}

func printRequirement(t skilltree.Tree, r progression.Requirement) {
	s, _ := t.Skill(r.SkillID)
	name := s.Name
	if name == "" {
		name = s.ID
	}
	outln(StyleTitle.Render(name) + " " + StyleDim.Render(fmt.Sprintf("Lv %d/%d", r.Level, r.MaxLevel)))
	if r.Maxed {
		printSuccess("Maxed")
		return
	}

	check := func(ok bool, format string, args ...any) {
		if ok {
			printSuccess(format, args...)
		} else {
			printError(format, args...)
		}
	}
	check(r.HasLevel, "Player level %d (have %d)", r.RequiredPlayerLevel, t.PlayerLevel)
	check(r.CanAfford, "Cost %d points (have %d)", r.Cost, t.AvailablePoints)
	check(len(r.MissingPrerequisites) == 0, "Prerequisites %s", prerequisiteText(s, r))

	switch {
	case r.Upgradable:
		printInfo("Can upgrade")
	case r.Downgradable:
		printInfo("Can downgrade")
	}
	if len(r.BlockingDependents) > 0 {
		printDetail("Downgrade blocked by %s", strings.Join(r.BlockingDependents, ", "))
	}
}

func prerequisiteText(s skilltree.Skill, r progression.Requirement) string {
	if len(s.RequiredSkills) == 0 {
		return "none"
	}
	if len(r.MissingPrerequisites) == 0 {
		return strings.Join(s.RequiredSkills, ", ")
	}
	return "missing " + strings.Join(r.MissingPrerequisites, ", ")
}

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
