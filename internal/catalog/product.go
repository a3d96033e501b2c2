package catalog

// Product is a single catalog record as returned by the product API.
// Optional fields hold their zero value when the upstream omits them.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug,omitempty"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Images      []string  `json:"images,omitempty"`
}

// Category is the nested category record of a product.
type Category struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// CategoryName returns the category name and whether the product has a category.
func (p Product) CategoryName() (string, bool) {
	if p.Category == nil {
		return "", false
	}
	return p.Category.Name, true
}
