package model

// LineKey identifies a cart line. Two additions collapse into one line
// only when both the product and the chosen variant match.
type LineKey struct {
	ProductID string
	Variant   string
}

// CartLine is one entry in a cart. Product is a snapshot taken at the
// time of the first add; later catalog changes do not touch it.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Variant  string  `json:"selectedSize,omitempty"`
}

// Key returns the identity of this line for matching purposes.
func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.Product.ID, Variant: l.Variant}
}

// Subtotal returns the line price in cents.
func (l CartLine) Subtotal() int64 {
	return l.Product.PriceCents * int64(l.Quantity)
}

// CartTotal sums the line subtotals. The total is always derived, never
// stored.
func CartTotal(lines []CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// CartCount returns the number of units across all lines.
func CartCount(lines []CartLine) int {
	var n int
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
