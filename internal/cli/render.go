package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skilltree/pkg/pipeline"
	"github.com/matzehuels/skilltree/pkg/progression"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

// renderCommand creates the render command, a shortcut from catalog to output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		upgrades   []string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [catalog]",
		Short: "Render a skill tree to SVG, DOT or JSON",
		Long: `Render a skill tree to SVG, DOT or JSON.

Runs the full pipeline: layout (cached), progression snapshot, and rendering.
Nodes are coloured by state: locked, eligible, partially upgraded or maxed.
The JSON format is the snapshot a frontend draws from: positions, states,
eligibility and the tree summary.

Use --upgrade to preview the tree after a sequence of upgrades.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache, upgrades)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show cost and required player level on nodes")
	cmd.Flags().StringSliceVarP(&upgrades, "upgrade", "u", nil, "skill IDs to upgrade before rendering, in order")
	addLayoutFlags(cmd, &opts)

	return cmd
}

// runRender loads the catalog, applies any preview upgrades, and renders it.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool, upgrades []string) error {
	t, err := loadTree(ctx, input)
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", input, err)
	}
	if t, err = applyUpgrades(t, upgrades); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering skill tree...")
	spinner.Start()

	result, err := runner.Execute(ctx, t, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		stats:     result.Stats,
		cacheHit:  result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
	})
}

// applyUpgrades upgrades each skill in order, stopping at the first
// rejection.
func applyUpgrades(t skilltree.Tree, ids []string) (skilltree.Tree, error) {
	for _, id := range ids {
		next, err := progression.TryUpgrade(t, id)
		if err != nil {
			return t, err
		}
		t = next
	}
	return t, nil
}

// artifactWriteParams describes rendered artifacts and where they go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	stats     pipeline.Stats
	cacheHit  bool
}

// writeArtifacts writes one file per format. With a single format the output
// flag names the file ("-" for stdout); with several it is the base path.
func writeArtifacts(p artifactWriteParams) error {
	if len(p.formats) == 1 && p.output == "-" {
		_, err := stdout.Write(p.artifacts[p.formats[0]])
		return err
	}

	var paths []string
	for _, format := range p.formats {
		path := p.output
		if len(p.formats) > 1 || path == "" {
			path = basePath(p.output, p.input) + "." + format
		}

		out, err := openOutput(path)
		if err != nil {
			return err
		}
		_, err = out.Write(p.artifacts[format])
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Render complete")
	for _, path := range paths {
		printFile(path)
	}
	printStats(p.stats.NodeCount, p.stats.EdgeCount, p.cacheHit)
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .dot, .json), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// openOutput creates path, or returns stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
