package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skilltree/pkg/buildinfo"
	"github.com/matzehuels/skilltree/pkg/cache"
	"github.com/matzehuels/skilltree/pkg/catalog"
	"github.com/matzehuels/skilltree/pkg/pipeline"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "skilltree"

	// envRedisAddr names the Redis server used as a shared layout cache.
	envRedisAddr = "SKILLTREE_REDIS_ADDR"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// redisAddr overrides SKILLTREE_REDIS_ADDR when set via --redis.
	redisAddr string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Skilltree lays out and plays RPG-style skill trees",
		Long: `Skilltree loads skill tree catalogs (JSON, YAML or TOML), computes layered
layouts of their prerequisite graphs, and applies upgrade/downgrade rules
gated by player level, points and prerequisites.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.redisAddr, "redis", "", "Redis address for the layout cache (default: $"+envRedisAddr+", file cache if unset)")

	// Register all subcommands
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.statusCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	// Scope keys by version so layouts from older builds are never reused.
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// newCache picks the cache backend: none, Redis when an address is
// configured, else the file cache under cacheDir.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := c.redisAddress(); addr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: addr})
		if err != nil {
			return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
		}
		c.Logger.Debug("using redis cache", "addr", addr)
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) redisAddress() string {
	if c.redisAddr != "" {
		return c.redisAddr
	}
	return os.Getenv(envRedisAddr)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/skilltree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// addLayoutFlags registers the layout flags shared by layout, render, play
// and serve. Defaults come from the pipeline package.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&opts.Direction, "direction", "d", string(pipeline.DefaultDirection), "rank direction: TB (top to bottom) or LR (left to right)")
	cmd.Flags().Float64Var(&opts.NodeWidth, "node-width", pipeline.DefaultNodeWidth, "node width")
	cmd.Flags().Float64Var(&opts.NodeHeight, "node-height", pipeline.DefaultNodeHeight, "node height")
	cmd.Flags().Float64Var(&opts.NodeSpacing, "node-spacing", pipeline.DefaultNodeSpacing, "distance between nodes in a rank")
	cmd.Flags().Float64Var(&opts.RankSpacing, "rank-spacing", pipeline.DefaultRankSpacing, "distance between ranks")
	cmd.Flags().IntVar(&opts.Passes, "passes", pipeline.DefaultPasses, "crossing-reduction sweeps")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute the layout even if cached")
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}

// loadTree loads a catalog file and logs what it found.
func loadTree(ctx context.Context, path string) (skilltree.Tree, error) {
	t, err := catalog.Load(path)
	if err != nil {
		return skilltree.Tree{}, err
	}
	loggerFromContext(ctx).Debug("loaded catalog", "path", path, "tree", t.ID, "skills", len(t.Skills), "connections", len(t.Connections))
	return t, nil
}
