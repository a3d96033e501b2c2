package web

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/JonMunkholm/catalogview/internal/catalog"
	"github.com/JonMunkholm/catalogview/internal/web/templates"
)

// criteriaParams are the raw view criteria from the query string.
type criteriaParams struct {
	Search   string `validate:"max=200"`
	Category string `validate:"max=200"`
	Sort     string `validate:"max=32"`
}

// parseCriteria reads search, category and sort from the query string.
// Unknown sort tokens mean no sorting; only over-long values are rejected.
func (s *Server) parseCriteria(r *http.Request) (catalog.Criteria, templates.Filters, error) {
	q := r.URL.Query()
	params := criteriaParams{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
	}
	if err := s.validate.Struct(params); err != nil {
		return catalog.Criteria{}, templates.Filters{}, fmt.Errorf("%w: %w", catalog.ErrInvalidCriteria, err)
	}

	c := catalog.Criteria{
		Search:   params.Search,
		Category: params.Category,
		Sort:     catalog.ParseSortMode(params.Sort),
	}
	return c, filtersFor(c), nil
}

func filtersFor(c catalog.Criteria) templates.Filters {
	return templates.Filters{
		Search:   c.Search,
		Category: c.Category,
		Sort:     string(c.Sort),
	}
}

// pageURL is the bookmarkable page address for c.
func pageURL(c catalog.Criteria) string {
	v := url.Values{}
	if c.Search != "" {
		v.Set("search", c.Search)
	}
	if c.Category != "" {
		v.Set("category", c.Category)
	}
	if c.Sort != catalog.SortNone {
		v.Set("sort", string(c.Sort))
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}
