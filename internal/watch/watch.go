// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch converts files as they appear or change under a directory
// tree.
package watch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/pkg/types"
)

// DefaultSettle is how long a file must be quiet before it is converted.
const DefaultSettle = 200 * time.Millisecond

// minTick bounds how often pending files are checked.
const minTick = time.Millisecond

// Handler receives the result of every conversion the watcher runs.
type Handler func(src, dst string, err error)

// Watcher runs one conversion pair on matching files under a root.
type Watcher struct {
	driver *convert.Driver
	key    types.ConversionKey
	settle time.Duration
	logger *slog.Logger
	ready  chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettle sets the quiet period before a changed file is converted.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New validates the pair against the driver's registry and returns a
// watcher for it.
func New(d *convert.Driver, from, to string, opts ...Option) (*Watcher, error) {
	key, err := convert.NormalizeKey(from, to)
	if err != nil {
		return nil, err
	}
	if _, err := d.Registry().Lookup(key); err != nil {
		return nil, err
	}
	w := &Watcher{
		driver: d,
		key:    key,
		settle: DefaultSettle,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		ready:  make(chan struct{}),
	}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// Run watches root and its subdirectories until ctx is cancelled. Files
// tagged with the source format are converted once they have been quiet
// for the settle period; directories created later are watched too.
// Hidden files and directories are ignored. Run returns nil on
// cancellation and may be called only once per Watcher.
func (w *Watcher) Run(ctx context.Context, root string, handle Handler) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return convert.Wrap(convert.KindIO, root, fmt.Errorf("creating watcher: %w", err))
	}
	defer fw.Close()

	if err := w.addTree(fw, root); err != nil {
		return err
	}
	close(w.ready)
	w.logger.Info("watching", "root", root, "key", w.key.String())

	pending := make(map[string]time.Time)
	tick := time.NewTicker(max(w.settle/2, minTick))
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if path, isDir := w.handleEvent(ev); isDir {
				if err := w.addTree(fw, path); err != nil {
					w.logger.Warn("watching new directory", "path", path, "error", err)
				}
				// Files written before the watch was added produce no event.
				for _, f := range w.matchingFiles(path) {
					pending[f] = time.Now()
				}
			} else if path != "" {
				pending[path] = time.Now()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case now := <-tick.C:
			for _, path := range due(pending, now, w.settle) {
				delete(pending, path)
				dst, err := w.driver.ConvertOne(ctx, path, w.key.From.Ext(), w.key.To.Ext())
				handle(path, dst, err)
			}
		}
	}
}

// Ready is closed once the initial tree is being watched.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// handleEvent classifies an event. It returns the path of a new directory
// with isDir set, the path of a matching file that changed, or "".
func (w *Watcher) handleEvent(ev fsnotify.Event) (path string, isDir bool) {
	if hidden(ev.Name) || !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return "", false
	}
	info, err := os.Stat(ev.Name)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		if ev.Has(fsnotify.Create) {
			return ev.Name, true
		}
		return "", false
	}
	if !info.Mode().IsRegular() || convert.TagOf(ev.Name) != w.key.From {
		return "", false
	}
	return ev.Name, false
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return convert.Wrap(convert.KindIO, root, fmt.Errorf("reading root: %w", err))
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && hidden(path) {
			return fs.SkipDir
		}
		if err := fw.Add(path); err != nil {
			if path == root {
				return convert.Wrap(convert.KindIO, root, fmt.Errorf("watching: %w", err))
			}
			w.logger.Warn("cannot watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) matchingFiles(dir string) []string {
	var out []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && path != dir && hidden(path) {
			return fs.SkipDir
		}
		if d.Type().IsRegular() && !hidden(path) && convert.TagOf(path) == w.key.From {
			out = append(out, path)
		}
		return nil
	})
	return out
}

func due(pending map[string]time.Time, now time.Time, settle time.Duration) []string {
	var out []string
	for path, last := range pending {
		if now.Sub(last) >= settle {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
