package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/skilltree/pkg/errors"
)

// validateCommand creates the validate command for checking catalogs.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [catalog...]",
		Short: "Check skill tree catalogs for errors",
		Long: `Check skill tree catalogs for errors.

Each catalog is decoded and validated: field ranges, unknown or duplicate
skill IDs, connections to missing skills, and prerequisite cycles. All
catalogs are checked even if one fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args)
		},
	}
}

func (c *CLI) runValidate(ctx context.Context, paths []string) error {
	prog := newProgress(loggerFromContext(ctx))
	failed := 0
	for _, path := range paths {
		t, err := loadTree(ctx, path)
		if err != nil {
			failed++
			printError("%s", path)
			printDetail("%s: %s", errs.GetCode(err), errs.UserMessage(err))
			continue
		}
		printSuccess("%s", path)
		printStats(len(t.Skills), len(t.Connections), false)
	}
	prog.done("checked catalogs", "count", len(paths), "invalid", failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d catalogs invalid", failed, len(paths))
	}
	return nil
}
