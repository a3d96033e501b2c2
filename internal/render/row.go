// Package render turns catalog products into display rows.
//
// A Row holds display strings only. It applies the fallbacks for missing
// fields and picks the thumbnail, but performs no escaping: the templates
// escape every value when writing HTML.
package render

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/catalogview/internal/catalog"
)

// Text used when an optional product field is missing.
const (
	MissingSlug        = "N/A"
	MissingDescription = "No description"
	MissingCategory    = "Unknown"
)

// NoImageURL replaces a thumbnail that fails to load in the browser.
const NoImageURL = "https://via.placeholder.com/100x100/cccccc/999999?text=No+Image"

const defaultPlaceholderCategory = "Miscellaneous"

var categoryPlaceholders = map[string]string{
	"Clothes":       "https://via.placeholder.com/100x100/4a90e2/ffffff?text=Clothes",
	"Electronics":   "https://via.placeholder.com/100x100/f39c12/ffffff?text=Electronics",
	"Shoes":         "https://via.placeholder.com/100x100/e74c3c/ffffff?text=Shoes",
	"Miscellaneous": "https://via.placeholder.com/100x100/95a5a6/ffffff?text=Other",
}

// Row is the display form of one product.
type Row struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Slug             string `json:"slug"`
	Price            string `json:"price"`
	PriceLabel       string `json:"price_label"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	ImageURL         string `json:"image_url"`
	ImageAlt         string `json:"image_alt"`
	FallbackImageURL string `json:"fallback_image_url"`
}

// RenderRow builds the display row for p. It never fails.
func RenderRow(p catalog.Product) Row {
	price := FormatPrice(p.Price)

	return Row{
		ID:               p.ID,
		Title:            p.Title,
		Slug:             orDefault(p.Slug, MissingSlug),
		Price:            price,
		PriceLabel:       "$" + price,
		Description:      orDefault(p.Description, MissingDescription),
		Category:         categoryLabel(p),
		ImageURL:         ImageURL(p),
		ImageAlt:         p.Title,
		FallbackImageURL: NoImageURL,
	}
}

// RenderRows renders products in order.
func RenderRows(products []catalog.Product) []Row {
	rows := make([]Row, len(products))
	for i, p := range products {
		rows[i] = RenderRow(p)
	}
	return rows
}

// FormatPrice renders v with exactly two fraction digits, rounding half
// away from zero on the shortest decimal form of v. Values that round to
// zero render as "0.00". NaN and infinities render as "0.00".
func FormatPrice(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// ImageURL picks the thumbnail for p: its first image, then its category
// image, then the placeholder for its category.
func ImageURL(p catalog.Product) string {
	if len(p.Images) > 0 && p.Images[0] != "" {
		return p.Images[0]
	}
	if p.Category != nil && p.Category.Image != "" {
		return p.Category.Image
	}
	return placeholderFor(p)
}

func placeholderFor(p catalog.Product) string {
	name := defaultPlaceholderCategory
	if p.Category != nil {
		name = p.Category.Name
	}
	if url, ok := categoryPlaceholders[name]; ok {
		return url
	}
	return categoryPlaceholders[defaultPlaceholderCategory]
}

func categoryLabel(p catalog.Product) string {
	if p.Category == nil {
		return MissingCategory
	}
	return p.Category.Name
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
