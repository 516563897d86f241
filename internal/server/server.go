// Package server serves the airdrop directory as HTML pages and a small JSON
// API. Locations match the terminal client: "/", "/{id}", "/about", "/faq",
// "/privacy" and "/terms", with the listing filters in the query string.
package server

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/notedrop/notedrop/internal/catalog"
	"github.com/notedrop/notedrop/internal/content"
	"github.com/notedrop/notedrop/internal/state"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Timeouts for the HTTP server and for one backend call.
const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
	fetchTimeout      = 15 * time.Second
)

// maxListingPages bounds the ?page= parameter.
const maxListingPages = 50

// Options configure a Server.
type Options struct {
	Source   catalog.Source
	Store    *state.Store
	PageSize int
	Logger   *zap.Logger
	Now      func() time.Time
}

// Server is the HTTP front end.
type Server struct {
	source   catalog.Source
	store    *state.Store
	pageSize int
	logger   *zap.Logger
	now      func() time.Time
	router   chi.Router
	pages    map[string]*template.Template
}

// New parses the templates and builds the router.
func New(opts Options) (*Server, error) {
	if opts.Source == nil {
		return nil, errors.New("server: source is required")
	}
	s := &Server{
		source:   opts.Source,
		store:    opts.Store,
		pageSize: opts.PageSize,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if s.store == nil {
		s.store = state.NewStore(state.ThemeDark)
	}
	if s.pageSize <= 0 {
		s.pageSize = catalog.DefaultPageSize
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}

	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	s.pages = pages
	s.setupRoutes()
	return s, nil
}

// parseTemplates builds one template set per page on top of the shared layout.
func parseTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"timeAgo": humanize.Time,
	}
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	pages := make(map[string]*template.Template)
	for _, name := range []string{"listing", "detail", "page", "error"} {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		t, err := clone.ParseFS(templatesFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	staticSub, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	r.Route("/api", func(r chi.Router) {
		r.Get("/airdrops", s.handleAPIList)
		r.Get("/airdrops/{id}", s.handleAPIGet)
		r.Get("/status", s.handleAPIStatus)
	})

	r.Post("/theme", s.handleToggleTheme)

	r.Get("/", s.handleListing)
	for _, p := range content.Pages() {
		r.Get("/"+p.Slug, s.pageHandler(p.Slug))
	}
	r.Get("/{id}", s.handleDetail)
	r.NotFound(s.handleNotFound)

	s.router = r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// requestLogger logs one line per request with zap.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// layoutData is what layout.html sees; Body is the page's own view.
type layoutData struct {
	Title   string
	Theme   string
	Network string
	Path    string
	Body    any
}

// render executes a page into a buffer so a template error can still become
// a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page, title string, body any) {
	data := layoutData{
		Title:   title,
		Theme:   string(themeFromRequest(r)),
		Network: s.store.Network().String(),
		Path:    r.URL.RequestURI(),
		Body:    body,
	}
	var buf bytes.Buffer
	if err := s.pages[page].ExecuteTemplate(&buf, "layout.html", data); err != nil {
		s.logger.Error("render template", zap.String("page", page), zap.Error(err))
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
