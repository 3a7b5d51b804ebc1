package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skilltree/pkg/catalog"
	"github.com/matzehuels/skilltree/pkg/progression"
)

// searchCommand creates the search command for fuzzy-finding skills.
func (c *CLI) searchCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [catalog] [query]",
		Short: "Fuzzy-find skills by name or ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), args[0], args[1], limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of matches (0 for all)")

	return cmd
}

func runSearch(ctx context.Context, input, query string, limit int) error {
	t, err := loadTree(ctx, input)
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", input, err)
	}

	matches := catalog.Search(t, query)
	if len(matches) == 0 {
		printWarning("No skills match %q", query)
		return nil
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	for _, m := range matches {
		label := highlight(m.Name+" "+m.SkillID, m.MatchedIndexes)
		outf("%s  %s\n", label, renderState(progression.StateOf(t, m.SkillID)))
	}
	return nil
}

// highlight renders the runes of s at the given byte indexes in the
// highlight style.
func highlight(s string, indexes []int) string {
	var b strings.Builder
	for i, r := range s {
		if slices.Contains(indexes, i) {
			b.WriteString(StyleHighlight.Bold(true).Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
