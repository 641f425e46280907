// Package watch reports changed source files for `muhigh check --watch`.
//
// It wraps an fsnotify watcher, watches whole directory trees (fsnotify
// itself is not recursive) and coalesces bursts of events into one batch
// per debounce interval.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op indicates a change operation in the filesystem.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
)

func (op Op) String() string {
	var names []string
	for _, n := range []struct {
		op   Op
		name string
	}{{OpCreate, "create"}, {OpWrite, "write"}, {OpRemove, "remove"}, {OpRename, "rename"}} {
		if op&n.op != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// DefaultDebounce is the quiet period before a batch is delivered.
const DefaultDebounce = 150 * time.Millisecond

// Watcher delivers debounced batches of changed files.
type Watcher struct {
	w        *fsnotify.Watcher
	debounce time.Duration
	match    func(path string) bool
	exclude  []string
	logger   *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a batch is delivered.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithMatch selects which files are reported. The default reports all.
func WithMatch(match func(path string) bool) Option {
	return func(w *Watcher) { w.match = match }
}

// WithExclude names directories that AddTree skips.
func WithExclude(names []string) Option {
	return func(w *Watcher) { w.exclude = names }
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// New creates a Watcher with nothing watched yet.
func New(opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		w:        fw,
		debounce: DefaultDebounce,
		match:    func(string) bool { return true },
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// AddTree watches root and every directory below it. A file root watches
// its parent directory.
func (w *Watcher) AddTree(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.w.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && slices.Contains(w.exclude, d.Name()) {
			return filepath.SkipDir
		}
		return w.w.Add(path)
	})
}

// Run delivers batches to handle until ctx is done. Each batch holds the
// sorted, distinct paths that changed during one debounce window. Newly
// created directories are watched automatically. Run returns ctx.Err() when
// ctx ends and nil when the Watcher is closed.
func (w *Watcher) Run(ctx context.Context, handle func(paths []string)) error {
	pending := make(map[string]Op)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			op := convert(ev.Op)
			if op&OpCreate != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.AddTree(ev.Name); err != nil {
						w.logger.Warn("watch new directory", slog.String("path", ev.Name), slog.Any("error", err))
					}
					continue
				}
			}
			if op == 0 || !w.match(ev.Name) {
				continue
			}
			pending[ev.Name] |= op
			timer.Reset(w.debounce)

		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", slog.Any("error", err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p, op := range pending {
				w.logger.Debug("changed", slog.String("path", p), slog.String("op", op.String()))
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)
			handle(paths)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.w.Close()
}

func convert(op fsnotify.Op) Op {
	var out Op
	if op.Has(fsnotify.Create) {
		out |= OpCreate
	}
	if op.Has(fsnotify.Write) {
		out |= OpWrite
	}
	if op.Has(fsnotify.Remove) {
		out |= OpRemove
	}
	if op.Has(fsnotify.Rename) {
		out |= OpRename
	}
	return out
}
