package catalog

import (
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/skilltree/pkg/errors"
)

// Format is a catalog encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// Formats lists the supported encodings.
var Formats = []Format{JSON, YAML, TOML}

// ParseFormat converts a format name ("json", "yaml", "yml" or "toml", any
// case) into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unknown catalog format %q (must be json, yaml or toml)", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	if err := errs.ValidateCatalogPath(path); err != nil {
		return "", err
	}
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}
