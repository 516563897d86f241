package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/notedrop/notedrop/internal/airdrop"
	"github.com/notedrop/notedrop/internal/catalog"
	"github.com/notedrop/notedrop/internal/content"
	"github.com/notedrop/notedrop/internal/filter"
	"github.com/notedrop/notedrop/internal/state"
)

const (
	themeCookie = "theme"
	themeMaxAge = 365 * 24 * time.Hour
)

// --- Page Handlers ---

// handleListing renders the first ?page= pages of records filtered by the
// query. The unfiltered result also tells the store whether the backend is
// empty.
func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := pageParam(query.Get("page"))
	query.Del("page")

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()
	result, err := s.source.List(ctx, 1, s.pageSize*page)
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}
	s.store.SetBackendEmpty(len(result.Records) == 0)

	selection := filter.FromQuery(query)
	view := newListingView(selection, result.Records, result.HasMore(len(result.Records)), page, query, s.now())
	s.render(w, r, http.StatusOK, "listing", "NoteDrop", view)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()
	record, err := s.source.Get(ctx, id)
	if err == nil && record.ID == "" {
		err = fmt.Errorf("airdrop %q: %w", id, catalog.ErrNotFound)
	}
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}

	view, err := newDetailView(record, s.now())
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "detail", record.DisplayName()+" · NoteDrop", view)
}

func (s *Server) pageHandler(slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := content.Lookup(slug)
		if !ok {
			s.handleNotFound(w, r)
			return
		}
		html, err := content.RenderHTML(page.Markdown)
		if err != nil {
			s.renderFailure(w, r, err)
			return
		}
		view := staticView{
			Title:    page.Title,
			Subtitle: page.Subtitle,
			HTML:     template.HTML(html), //nolint:gosec // sanitized by bluemonday
		}
		s.render(w, r, http.StatusOK, "page", page.Title+" · NoteDrop", view)
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "error", "Page not found · NoteDrop", errorView{
		Status:  http.StatusNotFound,
		Message: "Page not found",
	})
}

// renderFailure turns a fetch error into an error page with the matching
// status.
func (s *Server) renderFailure(w http.ResponseWriter, r *http.Request, err error) {
	failure := catalog.Classify(err)
	s.logFailure(r, failure, err)
	s.render(w, r, failure.HTTPStatus(), "error", "Error · NoteDrop", errorView{
		Status:  failure.HTTPStatus(),
		Message: failure.Message(),
		Retry:   failure.Retryable(),
	})
}

func (s *Server) logFailure(r *http.Request, failure catalog.Failure, err error) {
	if failure == catalog.FailureNotFound {
		return
	}
	s.logger.Warn("request failed",
		zap.String("path", r.URL.Path),
		zap.Stringer("failure", failure),
		zap.Error(err),
	)
}

// handleToggleTheme flips the theme cookie and sends the browser back.
func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	next := themeFromRequest(r).Toggle()
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    string(next),
		Path:     "/",
		MaxAge:   int(themeMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, safeReturn(r.FormValue("return")), http.StatusSeeOther)
}

func themeFromRequest(r *http.Request) state.Theme {
	c, err := r.Cookie(themeCookie)
	if err != nil {
		return state.ThemeDark
	}
	return state.ParseTheme(c.Value)
}

// safeReturn only allows local paths as redirect targets.
func safeReturn(path string) string {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.HasPrefix(path, "/\\") {
		return "/"
	}
	return path
}

func pageParam(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return min(page, maxListingPages)
}

// --- API Handlers ---

type apiListResponse struct {
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int              `json:"total"`
	HasMore  bool             `json:"has_more"`
	Matched  int              `json:"matched"`
	Records  []airdrop.Record `json:"records"`
}

// handleAPIList returns one page of records filtered by the listing query
// parameters.
func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := pageParam(query.Get("page"))
	size := s.pageSize
	if n, err := strconv.Atoi(query.Get("page_size")); err == nil && n > 0 {
		size = min(n, 100)
	}

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()
	result, err := s.source.List(ctx, page, size)
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	visible := filter.Visible(result.Records, filter.FromQuery(query), s.now())
	writeJSON(w, http.StatusOK, apiListResponse{
		Page:     page,
		PageSize: size,
		Total:    result.Total,
		HasMore:  result.HasMore((page-1)*size + len(result.Records)),
		Matched:  len(visible),
		Records:  visible,
	})
}

func (s *Server) handleAPIGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()
	record, err := s.source.Get(ctx, id)
	if err == nil && record.ID == "" {
		err = fmt.Errorf("airdrop %q: %w", id, catalog.ErrNotFound)
	}
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	resp := map[string]any{
		"network":              snap.Network().String(),
		"consecutive_failures": snap.ConsecutiveFailures,
	}
	if !snap.LastProbe.IsZero() {
		resp["last_probe"] = snap.LastProbe.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeAPIError(w http.ResponseWriter, r *http.Request, err error) {
	failure := catalog.Classify(err)
	s.logFailure(r, failure, err)
	writeJSON(w, failure.HTTPStatus(), map[string]string{
		"error":   failure.String(),
		"message": failure.Message(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
