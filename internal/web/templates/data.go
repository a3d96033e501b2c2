// Package templates renders the catalog page and its fragments.
//
// Components are generated from catalog.templ with `templ generate`; run it
// after editing the .templ file and commit catalog_templ.go alongside.
package templates

import (
	"strconv"

	"github.com/JonMunkholm/catalogview/internal/render"
)

// Element ids shared with static/catalog.js.
const (
	ResultsID       = "catalogResults"
	TableBodyID     = "productTableBody"
	CountID         = "productCount"
	SearchInputID   = "searchInput"
	CategoryID      = "categoryFilter"
	SortID          = "sortFilter"
	RefreshButtonID = "refreshButton"
	AlertID         = "catalogAlert"
)

// ColumnCount is the number of cells in a product row.
const ColumnCount = 7

// Option is a select option.
type Option struct {
	Value string
	Label string
}

// SortOptions lists the sort select in display order.
var SortOptions = []Option{
	{Value: "", Label: "Default order"},
	{Value: "price-low", Label: "Price: Low to High"},
	{Value: "price-high", Label: "Price: High to Low"},
	{Value: "name", Label: "Name: A to Z"},
}

func categoryOptions(categories []string) []Option {
	opts := make([]Option, 0, len(categories)+1)
	opts = append(opts, Option{Value: "", Label: "All Categories"})
	for _, c := range categories {
		opts = append(opts, Option{Value: c, Label: c})
	}
	return opts
}

// Filters echoes the request's criteria back into the controls.
type Filters struct {
	Search   string
	Category string
	Sort     string
}

// PageData is the full catalog page.
type PageData struct {
	Title      string
	Filters    Filters
	Categories []string
	Results    ResultsData
}

// ResultsData is the table body and count label.
// A non-empty Error replaces the rows with one full-width error row.
type ResultsData struct {
	Rows         []render.Row
	Error        string
	EmptyMessage string
}

// ShowCount reports whether the count label has content.
func (d ResultsData) ShowCount() bool {
	return d.Error == ""
}

// CountLabel renders "Showing N products".
func CountLabel(n int) string {
	return "Showing " + strconv.Itoa(n) + " products"
}
