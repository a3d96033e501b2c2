package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode selects the ordering of a derived view.
// The string values match the sort select options in the page.
type SortMode string

const (
	SortNone      SortMode = ""
	SortPriceAsc  SortMode = "price-low"
	SortPriceDesc SortMode = "price-high"
	SortTitleAsc  SortMode = "name"
)

// ParseSortMode maps a sort token to a SortMode. Unknown tokens are SortNone.
func ParseSortMode(s string) SortMode {
	switch mode := SortMode(strings.TrimSpace(s)); mode {
	case SortPriceAsc, SortPriceDesc, SortTitleAsc:
		return mode
	default:
		return SortNone
	}
}

// Criteria are the user-supplied view settings.
// An empty Search or Category disables that filter.
type Criteria struct {
	Search   string
	Category string
	Sort     SortMode
}

// IsZero reports whether the criteria select the full, unordered catalog.
func (c Criteria) IsZero() bool {
	return c.Search == "" && c.Category == "" && c.Sort == SortNone
}

type viewOptions struct {
	locale language.Tag
}

// ViewOption configures DeriveView.
type ViewOption func(*viewOptions)

// WithLocale sets the collation locale used for title sorting.
func WithLocale(tag language.Tag) ViewOption {
	return func(o *viewOptions) {
		o.locale = tag
	}
}

// DeriveView returns the products matching c, in the order c asks for.
// The input slice is never modified.
func DeriveView(products []Product, c Criteria, opts ...ViewOption) []Product {
	o := viewOptions{locale: language.English}
	for _, opt := range opts {
		opt(&o)
	}

	view := make([]Product, 0, len(products))
	term := strings.ToLower(c.Search)
	for _, p := range products {
		if term != "" && !matchesSearch(p, term) {
			continue
		}
		if c.Category != "" {
			if name, ok := p.CategoryName(); !ok || name != c.Category {
				continue
			}
		}
		view = append(view, p)
	}

	switch c.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(view, func(a, b Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(view, func(a, b Product) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case SortTitleAsc:
		// Collators keep internal buffers and are not safe for concurrent use.
		col := collate.New(o.locale)
		slices.SortStableFunc(view, func(a, b Product) int {
			return col.CompareString(a.Title, b.Title)
		})
	}

	return view
}

// matchesSearch reports whether the lowercased term occurs in the title or description.
func matchesSearch(p Product, term string) bool {
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}
