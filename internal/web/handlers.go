package web

import (
	"context"
	"net/http"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/catalogview/internal/catalog"
	"github.com/JonMunkholm/catalogview/internal/logging"
	"github.com/JonMunkholm/catalogview/internal/render"
	"github.com/JonMunkholm/catalogview/internal/web/templates"
)

const pageTitle = "Product Catalog"

// handlePage renders the full catalog page, loading the catalog on first use.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	criteria, filters, err := s.parseCriteria(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	s.ensureLoaded(r.Context())
	results := s.results(criteria, true)

	if isHTMX(r) {
		templ.Handler(templates.Results(results)).ServeHTTP(w, r)
		return
	}

	templ.Handler(templates.Page(templates.PageData{
		Title:      pageTitle,
		Filters:    filters,
		Categories: s.store.Categories(),
		Results:    results,
	})).ServeHTTP(w, r)
}

// handleRows returns the results fragment for the request's criteria.
// It never fetches.
func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	criteria, _, err := s.parseCriteria(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	w.Header().Set("HX-Push-Url", pageURL(criteria))
	templ.Handler(templates.Results(s.results(criteria, false))).ServeHTTP(w, r)
}

// handleRefresh re-fetches the catalog and returns the unfiltered fragment,
// or the error row when the fetch failed.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if _, err := s.fetcher.Fetch(r.Context()); err != nil {
		logging.FromContext(r.Context()).Debug("refresh failed", "error", err)
	}

	w.Header().Set("HX-Push-Url", "/")
	templ.Handler(templates.Results(s.results(catalog.Criteria{}, true))).ServeHTTP(w, r)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"loaded": s.store.Status().Loaded,
	})
}

// ensureLoaded fetches the catalog if no fetch has succeeded yet.
// A failure is recorded in the store by the fetcher.
func (s *Server) ensureLoaded(ctx context.Context) {
	if _, ok := s.store.Snapshot(); ok {
		return
	}
	if _, err := s.fetcher.Fetch(ctx); err != nil {
		logging.FromContext(ctx).Debug("initial catalog load failed", "error", err)
	}
}

// results builds the table data for c. With showFailure set, a failed
// latest fetch replaces the rows with the error row.
func (s *Server) results(c catalog.Criteria, showFailure bool) templates.ResultsData {
	if showFailure && s.store.Failed() {
		return templates.ResultsData{Error: catalog.FetchErrorMessage}
	}

	view := catalog.DeriveView(s.store.Products(), c, catalog.WithLocale(s.locale))
	return templates.ResultsData{
		Rows:         render.RenderRows(view),
		EmptyMessage: catalog.NoProductsMessage,
	}
}
