package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/kbmatrix/pkg/errors"
)

// defaultDebounce is how long the input must stay quiet before a rerun.
// Editors often save in several writes.
const defaultDebounce = 300 * time.Millisecond

// watcher reruns a stage whenever its input file changes.
type watcher struct {
	path     string
	debounce time.Duration
	logger   *log.Logger
}

func newWatcher(path string, logger *log.Logger) (*watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", path)
	}
	return &watcher{path: abs, debounce: defaultDebounce, logger: logger}, nil
}

// run calls fn after every burst of writes to the watched file, once the
// file has been quiet for the debounce interval. The parent directory is
// watched rather than the file, so replace-on-save editors and a file that
// does not exist yet both work.
//
// Errors from fn are logged and watching continues. run returns ctx.Err()
// when ctx is done.
func (w *watcher) run(ctx context.Context, fn func(context.Context) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "start file watcher")
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "watch %s", dir)
	}
	w.logger.Info("Watching for changes", "path", w.path)

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

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			w.logger.Debug("input changed", "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "err", err)

		case <-fire:
			fire = nil
			if err := fn(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logger.Error("Rerun failed", "err", errors.UserMessage(err))
			}
		}
	}
}

// watch runs fn once, then again on every change to input until ctx is
// done. A failing first run is reported but does not stop watching.
func (c *CLI) watch(ctx context.Context, input string, fn func(context.Context) error) error {
	logger := loggerFromContext(ctx)
	w, err := newWatcher(input, logger)
	if err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Error("Run failed", "err", errors.UserMessage(err))
	}
	return w.run(ctx, fn)
}
