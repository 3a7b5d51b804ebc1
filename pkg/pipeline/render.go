package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/skilltree/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats.
func Render(snap *Snapshot, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	var dot string
	if needsDOT(opts.Formats) {
		dot = nodelink.ToDOT(snap.Tree, snap.Layout, nodelink.Options{Detailed: opts.Detailed})
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(dot)
		case FormatDOT:
			data = []byte(dot)
		case FormatJSON:
			data, err = json.MarshalIndent(snap, "", "  ")
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func needsDOT(formats []string) bool {
	for _, f := range formats {
		if f == FormatSVG || f == FormatDOT {
			return true
		}
	}
	return false
}
