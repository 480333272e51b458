// Package widget implements the blog comment widget. It discovers the
// comment sections of a page, renders each post's comments into the
// section's list region, and submits new comments from the section's form,
// appending them to the list optimistically.
//
// A page is an HTML node tree. All network calls run without holding any
// lock; every change to the tree happens under the widget's mutex, which
// plays the part of a browser's single event loop.
package widget

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/evcraddock/blog-comments/internal/comment"
	"github.com/evcraddock/blog-comments/internal/page"
)

// Page markup contract.
const (
	SectionClass = "comments"
	ListClass    = "comment-list"
	FormClass    = "comment-form"
	PostIDAttr   = "data-post-id"
	AuthorField  = "author"
	TextField    = "text"
)

// AlertMessage is shown to the reader when a comment could not be posted.
const AlertMessage = "Failed to post comment."

// API is the remote comments service.
type API interface {
	ListComments(ctx context.Context, postID string) ([]comment.Comment, error)
	AddComment(ctx context.Context, sub comment.Submission) error
}

// Alerter shows a message to the reader.
type Alerter interface {
	Alert(ctx context.Context, msg string)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(ctx context.Context, msg string)

// Alert calls f.
func (f AlertFunc) Alert(ctx context.Context, msg string) {
	f(ctx, msg)
}

// Widget binds comment sections to the comments API.
type Widget struct {
	api     API
	alerter Alerter
	logger  *slog.Logger

	// mu guards every page tree the widget has discovered sections in,
	// along with section state.
	mu sync.Mutex
}

// Option configures a Widget.
type Option func(*Widget)

// WithAlerter sets where failed-post alerts go. The default logs them.
func WithAlerter(a Alerter) Option {
	return func(w *Widget) {
		w.alerter = a
	}
}

// WithLogger sets the diagnostic logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(w *Widget) {
		w.logger = l
	}
}

// New creates a widget backed by api.
func New(api API, opts ...Option) *Widget {
	w := &Widget{
		api:    api,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.alerter == nil {
		w.alerter = AlertFunc(func(ctx context.Context, msg string) {
			w.logger.WarnContext(ctx, "alert", "message", msg)
		})
	}
	return w
}

// Discover finds every comment section under root. Sections that break the
// markup contract are reported as *ConfigError values joined into the
// returned error; the remaining sections are still returned so one broken
// section does not disable the rest of the page.
func (w *Widget) Discover(root *html.Node) ([]*Section, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var (
		sections []*Section
		errs     []error
	)
	for i, n := range page.FindAll(root, page.ByClass(SectionClass)) {
		postID, ok := page.Attr(n, PostIDAttr)
		if !ok {
			errs = append(errs, &ConfigError{Index: i, Err: ErrMissingPostID})
			continue
		}
		list := page.FindFirst(n, page.ByClass(ListClass))
		if list == nil {
			errs = append(errs, &ConfigError{Index: i, PostID: postID, Err: ErrMissingList})
			continue
		}
		form := page.FindFirst(n, page.ByTagClass("form", FormClass))
		if form == nil {
			errs = append(errs, &ConfigError{Index: i, PostID: postID, Err: ErrMissingForm})
			continue
		}
		sections = append(sections, &Section{
			w:      w,
			postID: postID,
			list:   list,
			form:   form,
		})
	}
	return sections, errors.Join(errs...)
}

// Run performs a page load: it discovers the sections under root and loads
// every one of them concurrently. Load failures are recovered inside each
// section; only configuration errors are returned.
func (w *Widget) Run(ctx context.Context, root *html.Node) ([]*Section, error) {
	sections, err := w.Discover(root)
	_ = w.LoadAll(ctx, sections)
	return sections, err
}

// LoadAll loads sections concurrently and waits for all of them. A failing
// section never cancels its siblings. The joined load errors are returned
// for callers that want them; each has already been logged.
func (w *Widget) LoadAll(ctx context.Context, sections []*Section) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for _, s := range sections {
		s := s
		g.Go(func() error {
			if err := s.Load(ctx); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// Do runs fn while holding the page lock, so fn can read or render a page
// tree safely while loads or submissions are in flight.
func (w *Widget) Do(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn()
}
