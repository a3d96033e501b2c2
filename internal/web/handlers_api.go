package web

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/JonMunkholm/catalogview/internal/catalog"
	"github.com/JonMunkholm/catalogview/internal/render"
)

// ProductsResponse is the body of GET /api/products.
type ProductsResponse struct {
	SnapshotID string       `json:"snapshot_id,omitempty"`
	Generation uint64       `json:"generation"`
	Count      int          `json:"count"`
	Products   []render.Row `json:"products"`
}

// handleAPIProducts returns the derived view as display rows.
func (s *Server) handleAPIProducts(w http.ResponseWriter, r *http.Request) {
	criteria, _, err := s.parseCriteria(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	snap, _ := s.store.Snapshot()
	view := catalog.DeriveView(snap.Products, criteria, catalog.WithLocale(s.locale))
	writeJSON(w, http.StatusOK, ProductsResponse{
		SnapshotID: snap.ID,
		Generation: snap.Generation,
		Count:      len(view),
		Products:   render.RenderRows(view),
	})
}

// handleAPICategories lists the distinct category names of the current snapshot.
func (s *Server) handleAPICategories(w http.ResponseWriter, r *http.Request) {
	categories := s.store.Categories()
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	status := s.store.Status()
	writeJSON(w, http.StatusOK, struct {
		catalog.Status
		InFlight bool `json:"in_flight"`
	}{status, s.fetcher.InFlight()})
}

// handleAPIRefresh runs a fetch and reports its outcome.
func (s *Server) handleAPIRefresh(w http.ResponseWriter, r *http.Request) {
	result, err := s.fetcher.Fetch(r.Context())
	if err != nil {
		s.respondError(w, r, err, fetchErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// fetchErrorStatus picks the gateway status for a failed fetch.
func fetchErrorStatus(err error) int {
	if errors.Is(err, context.DeadlineExceeded) || catalog.MapError(err).Code == "FETCH004" {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}
