// Package pipeline turns a skill tree into render-ready output.
//
// This package implements the layout → snapshot → render pipeline shared by
// the CLI, the interactive browser and the HTTP server. Centralizing it keeps
// defaults, caching and logging consistent across entry points.
//
// # Architecture
//
//  1. Layout: compute node positions (cached by graph content and options)
//  2. Snapshot: combine positions with progression state for every skill
//  3. Render: produce SVG, DOT or JSON from a snapshot
//
// Layouts depend only on skill IDs and connections, so progression changes
// reuse the cached layout.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	snap, err := runner.Snapshot(ctx, tree, pipeline.Options{Direction: "LR"})
//	if err != nil {
//	    return err
//	}
//	artifacts, err := runner.Render(ctx, snap, pipeline.Options{Formats: []string{"svg"}})
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skilltree/pkg/cache"
	"github.com/matzehuels/skilltree/pkg/layout"
	"github.com/matzehuels/skilltree/pkg/layout/ordering"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultDirection is the default rank direction.
	DefaultDirection = layout.TopBottom

	// DefaultNodeWidth and DefaultNodeHeight are the default node footprint.
	DefaultNodeWidth  = layout.DefaultNodeWidth
	DefaultNodeHeight = layout.DefaultNodeHeight

	// DefaultNodeSpacing is the default distance between nodes in a rank.
	DefaultNodeSpacing = layout.DefaultNodeSpacing

	// DefaultRankSpacing is the default distance between ranks.
	DefaultRankSpacing = layout.DefaultRankSpacing

	// DefaultPasses is the default number of crossing-reduction sweeps.
	DefaultPasses = ordering.DefaultPasses
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Direction        string  `json:"direction,omitempty"`
	NodeWidth        float64 `json:"node_width,omitempty"`
	NodeHeight       float64 `json:"node_height,omitempty"`
	NodeSpacing      float64 `json:"node_spacing,omitempty"`
	RankSpacing      float64 `json:"rank_spacing,omitempty"`
	ComponentSpacing float64 `json:"component_spacing,omitempty"`
	Passes           int     `json:"passes,omitempty"`
	Refresh          bool    `json:"refresh,omitempty"` // Recompute even on a cache hit

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a full pipeline run.
type Result struct {
	Snapshot  *Snapshot
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int           `json:"node_count"`
	EdgeCount  int           `json:"edge_count"`
	LayoutTime time.Duration `json:"layout_time"`
	RenderTime time.Duration `json:"render_time"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool `json:"layout_hit"`
	RenderHit bool `json:"render_hit"` // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Direction == "" {
		o.Direction = string(DefaultDirection)
	}
	if o.NodeWidth == 0 {
		o.NodeWidth = DefaultNodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = DefaultNodeHeight
	}
	if o.NodeSpacing == 0 {
		o.NodeSpacing = DefaultNodeSpacing
	}
	if o.RankSpacing == 0 {
		o.RankSpacing = DefaultRankSpacing
	}
	if o.ComponentSpacing == 0 {
		o.ComponentSpacing = o.NodeSpacing
	}
	if o.Passes == 0 {
		o.Passes = DefaultPasses
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and normalizes the direction.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	dir, err := layout.ParseDirection(o.Direction)
	if err != nil {
		return err
	}
	o.Direction = string(dir)
	if o.Passes < 0 {
		return fmt.Errorf("passes must be positive, got %d", o.Passes)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// LayoutOptions converts o into layout engine options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Direction:        layout.Direction(o.Direction),
		NodeWidth:        o.NodeWidth,
		NodeHeight:       o.NodeHeight,
		NodeSpacing:      o.NodeSpacing,
		RankSpacing:      o.RankSpacing,
		ComponentSpacing: o.ComponentSpacing,
		Orderer:          ordering.Barycentric{Passes: o.Passes},
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Direction:        o.Direction,
		NodeWidth:        o.NodeWidth,
		NodeHeight:       o.NodeHeight,
		NodeSpacing:      o.NodeSpacing,
		RankSpacing:      o.RankSpacing,
		ComponentSpacing: o.ComponentSpacing,
		Passes:           o.Passes,
	}
}

// RenderKeyOpts returns cache key options for rendering one format of the
// snapshot identified by contentHash.
func (o *Options) RenderKeyOpts(format, contentHash string) cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Format:      format,
		Detailed:    o.Detailed,
		ContentHash: contentHash,
	}
}
