// Package web serves a generated blog with the comment widget applied to
// every page as it is requested, so comments work without client scripts.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/evcraddock/blog-comments/internal/logging"
	"github.com/evcraddock/blog-comments/internal/page"
	"github.com/evcraddock/blog-comments/internal/widget"
)

// AlertClass marks the element an alert is rendered into.
const AlertClass = "comment-alert"

// Server is the site HTTP server.
type Server struct {
	root   string
	api    widget.API
	logger *slog.Logger
	router chi.Router
}

// NewServer creates a server for the generated site in root, loading and
// posting comments through api.
func NewServer(root string, api widget.API) *Server {
	s := &Server{
		root:   root,
		api:    api,
		logger: slog.Default(),
		router: chi.NewRouter(),
	}

	s.router.Use(middleware.Recoverer)
	s.router.Use(logging.RequestLogger)

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/*", s.handlePage)
	s.router.Post("/*", s.handleSubmit)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("Serving %s on http://localhost%s\n", s.root, addr)
	return http.ListenAndServe(addr, s)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// resolve maps a request path to a file under the site root. Directory
// paths resolve to their index.html.
func (s *Server) resolve(urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	full := filepath.Join(s.root, filepath.FromSlash(clean))

	info, err := os.Stat(full)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		full = filepath.Join(full, "index.html")
		if _, err := os.Stat(full); err != nil {
			return "", false
		}
	}
	return full, true
}

func isPage(file string) bool {
	ext := strings.ToLower(filepath.Ext(file))
	return ext == ".html" || ext == ".htm"
}

// pageLoad is one request's view of a page: the parsed document, the
// widget bound to it, and the alerts raised while handling it.
type pageLoad struct {
	doc      *page.Document
	widget   *widget.Widget
	sections []*widget.Section

	mu     sync.Mutex
	alerts []string
}

func (s *Server) load(ctx context.Context, file string) (*pageLoad, error) {
	doc, err := page.ParseFile(file)
	if err != nil {
		return nil, err
	}

	pl := &pageLoad{doc: doc}
	pl.widget = widget.New(s.api,
		widget.WithLogger(s.logger),
		widget.WithAlerter(widget.AlertFunc(func(ctx context.Context, msg string) {
			pl.mu.Lock()
			defer pl.mu.Unlock()
			pl.alerts = append(pl.alerts, msg)
		})),
	)

	sections, cfgErr := pl.widget.Run(ctx, doc.Root)
	if cfgErr != nil {
		s.logger.ErrorContext(ctx, "comment section configuration", "page", file, "error", cfgErr)
	}
	pl.sections = sections

	for _, sec := range sections {
		form := sec.Form()
		page.SetAttr(form, "method", "post")
		page.SetAttr(form, "action", "?post="+url.QueryEscape(sec.PostID()))
	}
	return pl, nil
}

func (pl *pageLoad) section(postID string) *widget.Section {
	for _, sec := range pl.sections {
		if sec.PostID() == postID {
			return sec
		}
	}
	return nil
}

// showAlerts renders pending alerts at the top of sec's form.
func (pl *pageLoad) showAlerts(sec *widget.Section) {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	form := sec.Form()
	for _, msg := range pl.alerts {
		p := &html.Node{Type: html.ElementNode, DataAtom: atom.P, Data: "p", Attr: []html.Attribute{
			{Key: "class", Val: AlertClass},
			{Key: "role", Val: "alert"},
		}}
		p.AppendChild(&html.Node{Type: html.TextNode, Data: msg})
		form.InsertBefore(p, form.FirstChild)
	}
	pl.alerts = nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	file, ok := s.resolve(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if !isPage(file) {
		http.ServeFile(w, r, file)
		return
	}

	pl, err := s.load(r.Context(), file)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.writePage(w, r, pl, http.StatusOK)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	file, ok := s.resolve(r.URL.Path)
	if !ok || !isPage(file) {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	pl, err := s.load(r.Context(), file)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	sec := pl.section(r.URL.Query().Get("post"))
	if sec == nil {
		http.Error(w, "Unknown comment section", http.StatusBadRequest)
		return
	}

	status := http.StatusOK
	err = sec.Fill(r.PostForm.Get(widget.AuthorField), r.PostForm.Get(widget.TextField))
	if err == nil {
		err = sec.Submit(r.Context())
	}
	var ie *widget.InputError
	switch {
	case errors.As(err, &ie):
		status = http.StatusUnprocessableEntity
	case err != nil:
		status = http.StatusBadGateway
	}

	pl.showAlerts(sec)
	s.writePage(w, r, pl, status)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, pl *pageLoad, status int) {
	var buf bytes.Buffer
	var err error
	pl.widget.Do(func() { err = pl.doc.Render(&buf) })
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.WarnContext(r.Context(), "writing response", "error", err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.ErrorContext(r.Context(), "serving page", "path", r.URL.Path, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
