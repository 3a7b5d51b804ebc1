package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skilltree/pkg/cache"
	"github.com/matzehuels/skilltree/pkg/layout"
	"github.com/matzehuels/skilltree/pkg/observability"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the play TUI and the server all use it.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs layout, snapshot and render with caching.
func (r *Runner) Execute(ctx context.Context, t skilltree.Tree, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}
	result.Stats.NodeCount = len(t.Skills)
	result.Stats.EdgeCount = len(t.Connections)

	layoutStart := time.Now()
	res, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, t, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit
	result.Snapshot = NewSnapshot(t, res)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result.Snapshot, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"tree", t.ID,
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComputeLayoutWithCacheInfo lays out the tree's skills with caching and
// returns cache hit info. Layout errors (unknown endpoints, cycles) are
// returned unwrapped.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, t skilltree.Tree, opts Options) (layout.Result, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Result{}, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.LayoutKey(GraphHash(t), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				cached.Options = opts.LayoutOptions()
				observability.Cache().OnCacheHit(ctx, "layout")
				opts.Logger.Debug("layout cache hit", "tree", t.ID)
				return cached, true, nil
			}
			// Undecodable entry, fall through to recompute
		} else if err != nil {
			opts.Logger.Warn("layout cache read failed", "tree", t.ID, "err", err)
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, t.ID, len(t.Skills))
	start := time.Now()
	res, err := layout.Compute(t.Skills, t.Connections, opts.LayoutOptions())
	hooks.OnLayoutComplete(ctx, t.ID, time.Since(start), err)
	if err != nil {
		return layout.Result{}, false, err
	}

	opts.Logger.Info("computed layout",
		"tree", t.ID,
		"skills", len(t.Skills),
		"crossings", res.Crossings,
		"duration", time.Since(start))

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			opts.Logger.Warn("layout cache write failed", "tree", t.ID, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return res, false, nil
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, t skilltree.Tree, opts Options) (layout.Result, error) {
	res, _, err := r.ComputeLayoutWithCacheInfo(ctx, t, opts)
	return res, err
}

// Snapshot lays out t (through the cache) and returns its render-ready view.
func (r *Runner) Snapshot(ctx context.Context, t skilltree.Tree, opts Options) (*Snapshot, error) {
	res, err := r.ComputeLayout(ctx, t, opts)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(t, res), nil
}

// RenderWithCacheInfo renders a snapshot in every requested format with
// caching and reports whether all artifacts came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, snap *Snapshot, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutHash, err := cache.HashJSON(snap.Layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	contentHash := snap.ContentHash()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.RenderKey(layoutHash, opts.RenderKeyOpts(format, contentHash))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "render")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	rendered, err := Render(snap, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.RenderKey(layoutHash, opts.RenderKeyOpts(format, contentHash))
		if err := r.Cache.Set(ctx, key, data, cache.TTLRender); err == nil {
			observability.Cache().OnCacheSet(ctx, "render", len(data))
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, snap *Snapshot, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, snap, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
