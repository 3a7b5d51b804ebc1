package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	errs "github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

// WatchDebounce is how long Watch waits after the last write before
// reloading. Editors often save in several steps.
const WatchDebounce = 150 * time.Millisecond

// Watch reloads the catalog at path whenever it changes and passes the
// result to onChange, until ctx is done. A catalog that fails to load is
// reported through the error argument; watching continues.
//
// The parent directory is watched rather than the file so that editors which
// save by renaming a temporary file are followed. Watch blocks and returns
// ctx.Err() on cancellation.
func Watch(ctx context.Context, path string, onChange func(skilltree.Tree, error)) error {
	if err := errs.ValidateCatalogPath(path); err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(WatchDebounce)
			} else {
				timer.Reset(WatchDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange(Load(abs))

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			onChange(skilltree.Tree{}, fmt.Errorf("watch %s: %w", path, err))
		}
	}
}
