// Package watch reloads file-backed configurations when their files
// change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/signadot/go-hocon/config"
	"github.com/signadot/go-hocon/debug"
)

const DefaultDebounce = 100 * time.Millisecond

// Handler receives each load.  Exactly one of c and err is non-nil.
type Handler func(c *config.Config, err error)

type Option func(*Watcher)

// WithDebounce sets how long the files must stay quiet before a reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLoadOptions passes options to every load.  The watched files are
// always added as application files.
func WithLoadOptions(opts ...config.LoadOption) Option {
	return func(w *Watcher) { w.loadOpts = append(w.loadOpts, opts...) }
}

// Watcher loads a configuration from files and loads it again after
// they change.  Directories holding the files are watched so that
// editors replacing a file by rename are noticed.
type Watcher struct {
	files    map[string]bool
	order    []string
	handler  Handler
	debounce time.Duration
	loadOpts []config.LoadOption
}

func New(files []string, handler Handler, opts ...Option) (*Watcher, error) {
	if len(files) == 0 {
		return nil, errors.New("watch: no files")
	}
	w := &Watcher{
		files:    map[string]bool{},
		handler:  handler,
		debounce: DefaultDebounce,
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, err
		}
		w.files[abs] = true
		w.order = append(w.order, abs)
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Load loads the configuration once.
func (w *Watcher) Load() (*config.Config, error) {
	opts := append([]config.LoadOption{}, w.loadOpts...)
	opts = append(opts, config.WithFiles(w.order...))
	return config.Load(opts...)
}

func (w *Watcher) reload() {
	c, err := w.Load()
	if debug.Watch() {
		debug.Logf("reloaded %v: err=%v", w.order, err)
	}
	w.handler(c, err)
}

// Run delivers an initial load and then a load after each burst of
// changes, until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	dirs := map[string]bool{}
	for _, f := range w.order {
		dir := filepath.Dir(f)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.reload()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.files[filepath.Clean(ev.Name)] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			if debug.Watch() {
				debug.Logf("%s: %s", ev.Name, ev.Op)
			}
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			if debug.Watch() {
				debug.Logf("watch error: %v", err)
			}
		case <-timer.C:
			w.reload()
		}
	}
}
