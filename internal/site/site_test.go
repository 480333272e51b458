package site

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/evcraddock/blog-comments/internal/comment"
	"github.com/evcraddock/blog-comments/internal/widget"
)

type stubAPI struct {
	mu       sync.Mutex
	comments map[string][]comment.Comment
	fail     map[string]bool
}

func (s *stubAPI) ListComments(ctx context.Context, postID string) ([]comment.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[postID] {
		return nil, errors.New("unavailable")
	}
	return append([]comment.Comment{}, s.comments[postID]...), nil
}

func (s *stubAPI) AddComment(ctx context.Context, sub comment.Submission) error {
	return nil
}

const postPage = `<!DOCTYPE html><html><head><title>Post</title></head><body>
<article>Body</article>
<section class="comments" data-post-id="%s">
<div class="comment-list"></div>
<form class="comment-form"><input name="author"><textarea name="text"></textarea></form>
</section>
</body></html>`

const plainPage = "<!DOCTYPE html>\n<html><body><h1>About</h1>\n</body></html>\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(data)
}

func newRenderer(api widget.API) *Renderer {
	w := widget.New(api, widget.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	return &Renderer{Widget: w}
}

func post(id string) string {
	return strings.Replace(postPage, "%s", id, 1)
}

func TestPages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), plainPage)
	writeFile(t, filepath.Join(dir, "blog", "one.html"), post("1"))
	writeFile(t, filepath.Join(dir, "blog", "2024", "two.html"), post("2"))
	writeFile(t, filepath.Join(dir, "CSS", "style.css"), "body{}")
	writeFile(t, filepath.Join(dir, "feed.xml"), "<rss/>")

	pages, err := Pages(dir, nil)
	if err != nil {
		t.Fatalf("pages: %v", err)
	}
	want := []string{"blog/2024/two.html", "blog/one.html", "index.html"}
	if strings.Join(pages, ",") != strings.Join(want, ",") {
		t.Errorf("pages = %v, want %v", pages, want)
	}

	pages, err = Pages(dir, []string{"blog/*.html", "blog/**/*.html"})
	if err != nil {
		t.Fatalf("pages: %v", err)
	}
	if len(pages) != 2 {
		t.Errorf("pages = %v, want the two blog pages once each", pages)
	}
}

func TestPagesInvalidPattern(t *testing.T) {
	if _, err := Pages(t.TempDir(), []string{"blog/[.html"}); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		patterns []string
		rel      string
		want     bool
	}{
		{nil, "index.html", true},
		{nil, "blog/a/b.html", true},
		{nil, "blog/a/b.html.tmp.123", false},
		{nil, "style.css", false},
		{[]string{"blog/**/*.html"}, "index.html", false},
		{[]string{"blog/**/*.html"}, "blog/x.html", true},
	}
	for _, tt := range tests {
		if got := Match(tt.patterns, tt.rel); got != tt.want {
			t.Errorf("Match(%v, %q) = %v, want %v", tt.patterns, tt.rel, got, tt.want)
		}
	}
}

func TestRenderPage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "post.html")
	dst := filepath.Join(dir, "out", "post.html")
	writeFile(t, src, post("7"))

	api := &stubAPI{comments: map[string][]comment.Comment{
		"7": {{Author: "Bob", Text: "Hi"}, {Author: "Cy <b>x</b>", Text: "ok"}},
	}}
	res, err := newRenderer(api).RenderPage(context.Background(), src, dst)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if res.Sections != 1 || res.Failed != 0 || !res.Written {
		t.Errorf("result = %+v", res)
	}

	out := readFile(t, dst)
	if !strings.Contains(out, "<p><b>Bob</b><br/> Hi</p>") {
		t.Errorf("missing first comment in %q", out)
	}
	if !strings.Contains(out, "<p><b>Cy &lt;b&gt;x&lt;/b&gt;</b><br/> ok</p>") {
		t.Errorf("missing escaped second comment in %q", out)
	}
}

func TestRenderPageUnchangedSkipsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "post.html")
	writeFile(t, path, post("1"))
	r := newRenderer(&stubAPI{})

	first, err := r.RenderPage(context.Background(), path, path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !first.Written {
		t.Error("expected first render to write")
	}
	second, err := r.RenderPage(context.Background(), path, path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if second.Written {
		t.Error("expected idempotent render to skip writing")
	}
	if !strings.Contains(readFile(t, path), comment.EmptyMessage) {
		t.Error("expected empty placeholder")
	}
}

func TestRenderPageWithoutSectionsCopiesBytes(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "about.html")
	dst := filepath.Join(dir, "out", "about.html")
	writeFile(t, src, plainPage)

	res, err := newRenderer(&stubAPI{}).RenderPage(context.Background(), src, dst)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if res.Sections != 0 {
		t.Errorf("sections = %d", res.Sections)
	}
	if got := readFile(t, dst); got != plainPage {
		t.Errorf("page changed: %q", got)
	}
}

func TestRenderPageConfigError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.html")
	writeFile(t, src, `<html><body><div class="comments"><div class="comment-list"></div></div>`+
		`<div class="comments" data-post-id="3"><div class="comment-list"></div><form class="comment-form"></form></div></body></html>`)

	res, err := newRenderer(&stubAPI{}).RenderPage(context.Background(), src, src)
	if !errors.Is(err, widget.ErrMissingPostID) {
		t.Fatalf("err = %v, want missing post id", err)
	}
	if res.Sections != 1 {
		t.Errorf("sections = %d, want the valid section rendered", res.Sections)
	}
	if !strings.Contains(readFile(t, src), comment.EmptyMessage) {
		t.Error("valid section should still be rendered")
	}
}

func TestRenderSite(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "index.html"), plainPage)
	writeFile(t, filepath.Join(src, "blog", "ok.html"), post("ok"))
	writeFile(t, filepath.Join(src, "blog", "down.html"), post("down"))
	writeFile(t, filepath.Join(src, "blog", "bad.html"), `<div class="comments" data-post-id="x"></div>`)

	api := &stubAPI{fail: map[string]bool{"down": true}}
	results, err := newRenderer(api).RenderSite(context.Background(), src, dst)
	if !errors.Is(err, widget.ErrMissingList) {
		t.Errorf("err = %v, want missing list for bad.html", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}

	byPage := map[string]Result{}
	for _, r := range results {
		byPage[r.Page] = r
	}
	if byPage["blog/down.html"].Failed != 1 {
		t.Errorf("down.html = %+v, want one failed section", byPage["blog/down.html"])
	}
	if !strings.Contains(readFile(t, filepath.Join(dst, "blog", "down.html")), comment.FailedMessage) {
		t.Error("expected failure placeholder in down.html")
	}
	if !strings.Contains(readFile(t, filepath.Join(dst, "blog", "ok.html")), comment.EmptyMessage) {
		t.Error("expected empty placeholder in ok.html")
	}
}

func TestWatcherRendersChangedPages(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	api := &stubAPI{comments: map[string][]comment.Comment{"9": {{Author: "Ada", Text: "watched"}}}}
	w, err := NewWatcher(newRenderer(api), src, dst)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer func() {
		if err := w.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	}()
	w.Debounce = 50 * time.Millisecond

	rendered := make(chan []Result, 4)
	w.OnRender = func(results []Result, err error) {
		rendered <- results
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	writeFile(t, filepath.Join(src, "post.html"), post("9"))

	select {
	case results := <-rendered:
		if len(results) != 1 || results[0].Page != "post.html" {
			t.Errorf("results = %+v", results)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for render")
	}

	if !strings.Contains(readFile(t, filepath.Join(dst, "post.html")), "watched") {
		t.Error("expected rendered comment in output")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
