package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/catalogview/internal/catalog"
)

func TestRenderRow_FullProduct(t *testing.T) {
	t.Parallel()

	row := RenderRow(catalog.Product{
		ID:          "7",
		Title:       "Red Shirt",
		Slug:        "red-shirt",
		Price:       20,
		Description: "Cotton tee",
		Category:    &catalog.Category{Name: "Clothes", Image: "https://img.example.com/clothes.png"},
		Images:      []string{"https://img.example.com/shirt.png"},
	})

	require.Equal(t, Row{
		ID:               "7",
		Title:            "Red Shirt",
		Slug:             "red-shirt",
		Price:            "20.00",
		PriceLabel:       "$20.00",
		Description:      "Cotton tee",
		Category:         "Clothes",
		ImageURL:         "https://img.example.com/shirt.png",
		ImageAlt:         "Red Shirt",
		FallbackImageURL: NoImageURL,
	}, row)
}

func TestRenderRow_MissingFields(t *testing.T) {
	t.Parallel()

	row := RenderRow(catalog.Product{})

	require.Equal(t, "", row.Title)
	require.Equal(t, "N/A", row.Slug)
	require.Equal(t, "No description", row.Description)
	require.Equal(t, "Unknown", row.Category)
	require.Equal(t, "$0.00", row.PriceLabel)
	require.Equal(t, categoryPlaceholders["Miscellaneous"], row.ImageURL)
}

func TestFormatPrice(t *testing.T) {
	t.Parallel()

	tests := map[float64]string{
		0:         "0.00",
		20:        "20.00",
		19.5:      "19.50",
		9.999:     "10.00",
		1234.5678: "1234.57",
		-3.1:      "-3.10",
		0.005:     "0.01",
	}
	for in, want := range tests {
		require.Equal(t, want, FormatPrice(in), "FormatPrice(%v)", in)
	}

	require.Equal(t, "0.00", FormatPrice(math.NaN()))
	require.Equal(t, "0.00", FormatPrice(math.Inf(1)))
	require.Equal(t, "0.00", FormatPrice(math.Inf(-1)))
}

// Prices round half away from zero on their shortest decimal form, not on
// the binary float, so 1.005 renders as "1.01". Results below half a cent
// never carry a minus sign.
func TestFormatPrice_Rounding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{in: 1.005, want: "1.01"},
		{in: 1.015, want: "1.02"},
		{in: 2.675, want: "2.68"},
		{in: 1.004999, want: "1.00"},
		{in: -1.005, want: "-1.01"},
		{in: -0.001, want: "0.00"},
		{in: -0.004, want: "0.00"},
		{in: -0.005, want: "-0.01"},
		{in: math.Copysign(0, -1), want: "0.00"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, FormatPrice(tt.in), "FormatPrice(%v)", tt.in)
	}
}

func TestImageURL_Priority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		product catalog.Product
		want    string
	}{
		{
			name:    "first image wins",
			product: catalog.Product{Images: []string{"a.png", "b.png"}, Category: &catalog.Category{Name: "Shoes", Image: "cat.png"}},
			want:    "a.png",
		},
		{
			name:    "empty first image falls back to category image",
			product: catalog.Product{Images: []string{"", "b.png"}, Category: &catalog.Category{Name: "Shoes", Image: "cat.png"}},
			want:    "cat.png",
		},
		{
			name:    "category placeholder",
			product: catalog.Product{Category: &catalog.Category{Name: "Electronics"}},
			want:    "https://via.placeholder.com/100x100/f39c12/ffffff?text=Electronics",
		},
		{
			name:    "unknown category uses miscellaneous",
			product: catalog.Product{Category: &catalog.Category{Name: "Furniture"}},
			want:    "https://via.placeholder.com/100x100/95a5a6/ffffff?text=Other",
		},
		{
			name:    "no category uses miscellaneous",
			product: catalog.Product{},
			want:    "https://via.placeholder.com/100x100/95a5a6/ffffff?text=Other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, ImageURL(tt.product))
		})
	}
}

func TestRenderRow_KeepsMarkupAsText(t *testing.T) {
	t.Parallel()

	row := RenderRow(catalog.Product{Title: "<b>bold</b>", Description: `"quoted" & more`})
	require.Equal(t, "<b>bold</b>", row.Title)
	require.Equal(t, "<b>bold</b>", row.ImageAlt)
	require.Equal(t, `"quoted" & more`, row.Description)
}

func TestRenderRows_PreservesOrder(t *testing.T) {
	t.Parallel()

	rows := RenderRows([]catalog.Product{{ID: "b"}, {ID: "a"}})
	require.Equal(t, "b", rows[0].ID)
	require.Equal(t, "a", rows[1].ID)
	require.Empty(t, RenderRows(nil))
}
