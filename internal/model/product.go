package model

// Product is a catalog entry as served by the storefront backend.
// Price is carried in minor units (cents) internally; the backend wire
// format uses a decimal float which the backend client converts.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	PriceCents  int64    `json:"priceCents"`
	Category    string   `json:"category,omitempty"`
	SubCategory string   `json:"subCategory,omitempty"`
	Gender      string   `json:"gender,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Images      []string `json:"images,omitempty"`
	Stock       int      `json:"stock"`
}

// HasSize reports whether the product offers the given size variant.
func (p *Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// RequiresVariant reports whether a size must be chosen before the
// product can be added to a cart.
func (p *Product) RequiresVariant() bool {
	return len(p.Sizes) > 0
}
