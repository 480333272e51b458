package site

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-renders pages as the site generator rewrites them.
type Watcher struct {
	renderer *Renderer
	src      string
	dst      string
	fsw      *fsnotify.Watcher
	once     sync.Once

	// Debounce is how long the watcher waits for writes to settle before
	// rendering the pages that changed.
	Debounce time.Duration

	// OnRender, when set, is called after each batch is rendered.
	OnRender func(results []Result, err error)
}

// NewWatcher creates a watcher over every directory under src. Changed
// pages are rendered into the same relative path under dst.
func NewWatcher(r *Renderer, src, dst string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		renderer: r,
		src:      src,
		dst:      dst,
		fsw:      fsw,
		Debounce: 200 * time.Millisecond,
	}
	if err := w.addTree(src); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches dir and all of its subdirectories.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// Run processes file events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	pending := make(map[string]struct{})
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			rel, ok := w.pageFor(event)
			if !ok {
				continue
			}
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			w.flush(ctx, pending)
			pending = make(map[string]struct{})
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("fsnotify error", "error", err)
		}
	}
}

// pageFor returns the relative page path an event concerns. New
// directories are added to the watch set and never reported.
func (w *Watcher) pageFor(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := w.addTree(event.Name); err != nil {
				slog.Warn("watching new directory", "path", event.Name, "error", err)
			}
		}
		return "", false
	}

	rel, err := filepath.Rel(w.src, event.Name)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if !Match(w.renderer.Patterns, rel) {
		return "", false
	}
	return rel, true
}

func (w *Watcher) flush(ctx context.Context, pending map[string]struct{}) {
	pages := make([]string, 0, len(pending))
	for p := range pending {
		pages = append(pages, p)
	}
	sort.Strings(pages)

	results, err := w.renderer.RenderPages(ctx, w.src, w.dst, pages)
	for _, res := range results {
		if res.Written {
			slog.Info("page rendered", "page", res.Page, "sections", res.Sections, "failed", res.Failed)
		}
	}
	if err != nil {
		slog.Error("rendering pages", "error", err)
	}
	if w.OnRender != nil {
		w.OnRender(results, err)
	}
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		if closeErr := w.fsw.Close(); closeErr != nil {
			err = fmt.Errorf("closing fsnotify watcher: %w", closeErr)
		}
	})
	return err
}
