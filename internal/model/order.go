package model

import "time"

// Order statuses as reported by the backend.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// OrderItem is a purchased line. Price is the unit price in cents that
// was frozen into the cart line at add time.
type OrderItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	PriceCents  int64  `json:"priceCents"`
	Size        string `json:"size,omitempty"`
}

// ShippingDetails is the address block collected at checkout.
type ShippingDetails struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Zip      string `json:"zip"`
	Phone    string `json:"phone"`
}

// Order is a placed order as the backend records it.
type Order struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Username    string          `json:"username"`
	Items       []OrderItem     `json:"items"`
	TotalCents  int64           `json:"totalCents"`
	Status      string          `json:"status"`
	Shipping    ShippingDetails `json:"shipping"`
	PlacedAt    time.Time       `json:"placedAt"`
}

// OrderFromCart builds the order lines and total for the given cart.
// Unit prices come from the cart snapshots, not the live catalog.
func OrderFromCart(lines []CartLine) ([]OrderItem, int64) {
	items := make([]OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, OrderItem{
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			Quantity:    l.Quantity,
			PriceCents:  l.Product.PriceCents,
			Size:        l.Variant,
		})
	}
	return items, CartTotal(lines)
}
