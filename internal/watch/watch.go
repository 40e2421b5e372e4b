// Package watch re-runs a handler when Python sources change on disk.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"algotex/internal/trace"
)

// DefaultDebounce coalesces the bursts editors produce on save.
const DefaultDebounce = 100 * time.Millisecond

// Handler receives the changed .py files of one debounced batch, sorted.
type Handler func(ctx context.Context, paths []string)

// Watcher watches a single file or a directory tree.
type Watcher struct {
	w        *fsnotify.Watcher
	root     string
	file     string // non-empty when watching a single file
	debounce time.Duration
}

// New starts watching root. Directories are watched recursively; new
// subdirectories are picked up as they appear.
func New(root string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{w: fw, root: abs, debounce: debounce}
	if info.IsDir() {
		err = w.addTree(abs)
	} else {
		// Редакторы часто пишут через rename, поэтому следим за каталогом.
		w.file = abs
		err = fw.Add(filepath.Dir(abs))
	}
	if err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.w.Add(path)
	})
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "__pycache__"
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.w.Close()
}

func (w *Watcher) relevant(path string) bool {
	if w.file != "" {
		return path == w.file
	}
	return strings.HasSuffix(path, ".py")
}

// Run delivers debounced batches to handle until ctx is cancelled or the
// watcher fails. Cancellation returns nil.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	tracer := trace.FromContext(ctx)
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 && w.file == "" {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !skipDir(filepath.Base(ev.Name)) {
					if err := w.addTree(ev.Name); err != nil {
						return err
					}
					w.queueTree(ev.Name, pending)
					timer.Reset(w.debounce)
					continue
				}
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			path := filepath.Clean(ev.Name)
			if !w.relevant(path) {
				continue
			}
			pending[path] = struct{}{}
			timer.Reset(w.debounce)
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				trace.Point(tracer, trace.ScopeDriver, "watch_overflow", 0)
				continue
			}
			return err
		case <-timer.C:
			batch := w.flush(pending)
			if len(batch) == 0 {
				continue
			}
			span, batchCtx := trace.Child(ctx, trace.ScopeDriver, "watch_batch")
			handle(batchCtx, batch)
			span.End(strings.Join(batch, ","))
		}
	}
}

// queueTree schedules every .py file already present in a new directory:
// files written before the directory was watched produce no events.
func (w *Watcher) queueTree(dir string, pending map[string]struct{}) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && path != dir && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if !d.IsDir() && w.relevant(path) {
			pending[filepath.Clean(path)] = struct{}{}
		}
		return nil
	})
}

// flush drops vanished files, since a rename event also fires for the old name.
func (w *Watcher) flush(pending map[string]struct{}) []string {
	batch := make([]string, 0, len(pending))
	for path := range pending {
		delete(pending, path)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			batch = append(batch, path)
		}
	}
	sort.Strings(batch)
	return batch
}
