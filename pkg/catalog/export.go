package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

// Write encodes t as a catalog in format f. Connections are written
// explicitly, so the output reads back to the same tree with [Read].
func Write(w io.Writer, t skilltree.Tree, f Format) error {
	out := fromTree(t)

	var err error
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(out)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(out); err == nil {
			err = enc.Close()
		}
	case TOML:
		err = toml.NewEncoder(w).Encode(out)
	default:
		return errs.New(errs.ErrCodeInvalidFormat, "unknown catalog format %q", f)
	}
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Export writes t to path in the format of its extension.
func Export(t skilltree.Tree, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(fh, t, format); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
