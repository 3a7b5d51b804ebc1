package cli

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/skilltree/internal/server"
	"github.com/matzehuels/skilltree/pkg/catalog"
	"github.com/matzehuels/skilltree/pkg/pipeline"
	"github.com/matzehuels/skilltree/pkg/session"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

// serveCommand creates the serve command, which hosts catalogs over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		watch   bool
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "serve [catalog...]",
		Short: "Host skill trees over HTTP",
		Long: `Host skill trees over HTTP.

Every catalog becomes a tree the API can lay out, render, upgrade and
downgrade. The first catalog is the active tree. Progression lives in
memory; use the play command to save it back to disk.

With --watch, edited catalogs are reloaded and replace the hosted tree,
discarding its in-memory progression.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args, addr, watch, noCache, opts)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload catalogs when their files change")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, inputs []string, addr string, watch, noCache bool, opts pipeline.Options) error {
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}
	opts.Logger = c.Logger

	mgr := session.NewManager(c.Logger)
	for _, path := range inputs {
		t, err := loadTree(ctx, path)
		if err != nil {
			return fmt.Errorf("load catalog %s: %w", path, err)
		}
		if err := mgr.Add(t); err != nil {
			return fmt.Errorf("host catalog %s: %w", path, err)
		}
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	srv := server.New(mgr, runner, server.Config{Addr: addr, Layout: opts, Logger: c.Logger})

	printSuccess("Serving %d skill tree(s)", mgr.Len())
	printKeyValue("URL", StyleLink.Render("http://"+displayAddr(ln.Addr())))
	if watch {
		printDetail("Watching %d catalog(s) for changes", len(inputs))
	}
	printNewline()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx, ln)
	})
	if watch {
		for _, path := range inputs {
			g.Go(func() error {
				err := catalog.Watch(gctx, path, func(t skilltree.Tree, err error) {
					c.reload(mgr, path, t, err)
				})
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		}
	}
	return g.Wait()
}

// reload replaces a hosted tree with a freshly loaded catalog.
func (c *CLI) reload(mgr *session.Manager, path string, t skilltree.Tree, err error) {
	if err == nil {
		err = mgr.Put(t)
	}
	if err != nil {
		c.Logger.Warn("catalog reload failed", "path", path, "error", err)
		return
	}
	c.Logger.Info("catalog reloaded", "path", path, "tree", t.ID, "skills", len(t.Skills))
}

// displayAddr turns a wildcard listen address into one a browser can open.
func displayAddr(a net.Addr) string {
	tcp, ok := a.(*net.TCPAddr)
	if !ok || !tcp.IP.IsUnspecified() {
		return a.String()
	}
	return fmt.Sprintf("localhost:%d", tcp.Port)
}
