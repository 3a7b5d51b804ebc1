package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

// Read decodes a catalog in format f from r and returns the validated tree.
//
// Decoding problems yield an INVALID_FORMAT error. The tree is built with
// [skilltree.New], so structural problems surface as INVALID_CATALOG,
// [*errors.InvalidGraphError] or [*errors.CyclicGraphError]. Read does not
// close r.
func Read(r io.Reader, f Format) (skilltree.Tree, error) {
	var data file
	if err := decode(r, f, &data); err != nil {
		return skilltree.Tree{}, err
	}
	return data.toTree()
}

func decode(r io.Reader, f Format, v *file) error {
	var err error
	switch f {
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(v)
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(v)
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
	case TOML:
		var md toml.MetaData
		md, err = toml.NewDecoder(r).Decode(v)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				err = fmt.Errorf("unknown key %q", undecoded[0].String())
			}
		}
	default:
		return errs.New(errs.ErrCodeInvalidFormat, "unknown catalog format %q", f)
	}
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode %s catalog", f)
	}
	return nil
}

// Load reads the catalog at path. The format comes from the file extension.
func Load(path string) (skilltree.Tree, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return skilltree.Tree{}, err
	}

	fh, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return skilltree.Tree{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "catalog %s", path)
		}
		return skilltree.Tree{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()

	t, err := Read(fh, format)
	if err != nil {
		return skilltree.Tree{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
