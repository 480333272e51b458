// Package site runs the comment widget over the pages a static site
// generator has written.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/evcraddock/blog-comments/internal/page"
	"github.com/evcraddock/blog-comments/internal/widget"
)

// DefaultPatterns selects every HTML page in the output tree.
var DefaultPatterns = []string{"**/*.html"}

// Pages returns the slash-separated paths, relative to dir, of the files
// matching any of patterns. The result is sorted and free of duplicates.
func Pages(dir string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	fsys := os.DirFS(dir)
	seen := make(map[string]bool)
	var pages []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid page pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("matching %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				pages = append(pages, m)
			}
		}
	}
	sort.Strings(pages)
	return pages, nil
}

// Match reports whether the slash-separated relative path rel is selected
// by patterns.
func Match(patterns []string, rel string) bool {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Result describes one rendered page.
type Result struct {
	Page     string
	Sections int
	Failed   int
	Written  bool
}

// Renderer performs a page load with the widget for each page it is given.
type Renderer struct {
	Widget   *widget.Widget
	Patterns []string
	// Parallel bounds how many pages RenderSite works on at once.
	Parallel int
}

// RenderPage loads the page at src, runs the widget over it, and writes the
// result to dst, which may equal src. Pages without comment sections are
// written byte for byte. dst is left alone when its content would not
// change. Configuration errors are returned after the page is written.
func (r *Renderer) RenderPage(ctx context.Context, src, dst string) (Result, error) {
	res := Result{Page: src}

	data, err := os.ReadFile(src)
	if err != nil {
		return res, fmt.Errorf("reading page: %w", err)
	}
	doc, err := page.Parse(bytes.NewReader(data))
	if err != nil {
		return res, fmt.Errorf("%s: %w", src, err)
	}

	sections, cfgErr := r.Widget.Run(ctx, doc.Root)
	res.Sections = len(sections)
	for _, s := range sections {
		if s.LoadState() == widget.LoadFailed {
			res.Failed++
		}
	}

	out := data
	if len(sections) > 0 {
		var buf bytes.Buffer
		if err := doc.Render(&buf); err != nil {
			return res, fmt.Errorf("rendering %s: %w", src, err)
		}
		out = buf.Bytes()
	}

	existing, err := os.ReadFile(dst)
	if err != nil || !bytes.Equal(existing, out) {
		if err := page.WriteAtomic(dst, out); err != nil {
			return res, fmt.Errorf("writing %s: %w", dst, err)
		}
		res.Written = true
	}

	if cfgErr != nil {
		return res, fmt.Errorf("%s: %w", src, cfgErr)
	}
	return res, nil
}

// RenderSite renders every matching page under srcDir into the same
// relative path under dstDir. It keeps going past failing pages and returns
// their errors joined.
func (r *Renderer) RenderSite(ctx context.Context, srcDir, dstDir string) ([]Result, error) {
	pages, err := Pages(srcDir, r.Patterns)
	if err != nil {
		return nil, err
	}
	return r.RenderPages(ctx, srcDir, dstDir, pages)
}

// RenderPages renders the given relative page paths from srcDir to dstDir.
func (r *Renderer) RenderPages(ctx context.Context, srcDir, dstDir string, pages []string) ([]Result, error) {
	results := make([]Result, len(pages))

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(r.parallel())
	for i, rel := range pages {
		i, rel := i, rel
		g.Go(func() error {
			src := filepath.Join(srcDir, filepath.FromSlash(rel))
			dst := filepath.Join(dstDir, filepath.FromSlash(rel))
			res, err := r.RenderPage(ctx, src, dst)
			res.Page = rel
			results[i] = res
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return results, errors.Join(errs...)
}

func (r *Renderer) parallel() int {
	if r.Parallel > 0 {
		return r.Parallel
	}
	return 4
}
