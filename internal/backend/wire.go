package backend

import (
	"time"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
)

// Wire types mirror the backend's JSON. Prices travel as decimal floats
// and are converted to cents at the boundary.

type wireProduct struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory"`
	Gender      string   `json:"gender"`
	Sizes       []string `json:"sizes"`
	ImageURL    string   `json:"imageUrl"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock"`
}

type wireCartItem struct {
	Product      wireProduct `json:"product"`
	Quantity     int         `json:"quantity"`
	SelectedSize string      `json:"selectedSize,omitempty"`
}

type wireOrderItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Size        string  `json:"size,omitempty"`
}

type wireOrder struct {
	ID              string          `json:"id,omitempty"`
	UserID          string          `json:"userId"`
	Username        string          `json:"username"`
	Items           []wireOrderItem `json:"items"`
	TotalAmount     float64         `json:"totalAmount"`
	Status          string          `json:"status,omitempty"`
	OrderDate       string          `json:"orderDate,omitempty"`
	ShippingName    string          `json:"shippingName,omitempty"`
	ShippingAddress string          `json:"shippingAddress,omitempty"`
	ShippingCity    string          `json:"shippingCity,omitempty"`
	ShippingZip     string          `json:"shippingZip,omitempty"`
	ShippingPhone   string          `json:"shippingPhone,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		FullName string `json:"fullName"`
		Role     string `json:"role"`
	} `json:"user"`
}

type backendError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func productFromWire(w wireProduct) model.Product {
	return model.Product{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		PriceCents:  model.Cents(w.Price),
		Category:    w.Category,
		SubCategory: w.SubCategory,
		Gender:      w.Gender,
		Sizes:       w.Sizes,
		ImageURL:    w.ImageURL,
		Images:      w.Images,
		Stock:       w.Stock,
	}
}

func productToWire(p model.Product) wireProduct {
	return wireProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       model.Decimal(p.PriceCents),
		Category:    p.Category,
		SubCategory: p.SubCategory,
		Gender:      p.Gender,
		Sizes:       p.Sizes,
		ImageURL:    p.ImageURL,
		Images:      p.Images,
		Stock:       p.Stock,
	}
}

func cartFromWire(items []wireCartItem) []model.CartLine {
	lines := make([]model.CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, model.CartLine{
			Product:  productFromWire(it.Product),
			Quantity: it.Quantity,
			Variant:  it.SelectedSize,
		})
	}
	return lines
}

func cartToWire(lines []model.CartLine) []wireCartItem {
	items := make([]wireCartItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, wireCartItem{
			Product:      productToWire(l.Product),
			Quantity:     l.Quantity,
			SelectedSize: l.Variant,
		})
	}
	return items
}

func orderToWire(o model.Order) wireOrder {
	items := make([]wireOrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, wireOrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       model.Decimal(it.PriceCents),
			Size:        it.Size,
		})
	}
	return wireOrder{
		UserID:          o.UserID,
		Username:        o.Username,
		Items:           items,
		TotalAmount:     model.Decimal(o.TotalCents),
		ShippingName:    o.Shipping.FullName,
		ShippingAddress: o.Shipping.Address,
		ShippingCity:    o.Shipping.City,
		ShippingZip:     o.Shipping.Zip,
		ShippingPhone:   o.Shipping.Phone,
	}
}

func orderFromWire(w wireOrder) model.Order {
	items := make([]model.OrderItem, 0, len(w.Items))
	for _, it := range w.Items {
		items = append(items, model.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			PriceCents:  model.Cents(it.Price),
			Size:        it.Size,
		})
	}
	placedAt, _ := time.Parse(time.RFC3339, w.OrderDate)
	return model.Order{
		ID:         w.ID,
		UserID:     w.UserID,
		Username:   w.Username,
		Items:      items,
		TotalCents: model.Cents(w.TotalAmount),
		Status:     w.Status,
		Shipping: model.ShippingDetails{
			FullName: w.ShippingName,
			Address:  w.ShippingAddress,
			City:     w.ShippingCity,
			Zip:      w.ShippingZip,
			Phone:    w.ShippingPhone,
		},
		PlacedAt: placedAt,
	}
}
