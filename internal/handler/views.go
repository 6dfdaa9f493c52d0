package handler

import "github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"

// productView is a catalog entry as the UI consumes it: the raw cents
// plus a preformatted display price.
type productView struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	PriceCents   int64    `json:"priceCents"`
	PriceDisplay string   `json:"priceDisplay"`
	Category     string   `json:"category,omitempty"`
	SubCategory  string   `json:"subCategory,omitempty"`
	Gender       string   `json:"gender,omitempty"`
	Sizes        []string `json:"sizes,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Images       []string `json:"images,omitempty"`
	Stock        int      `json:"stock"`
	Wishlisted   bool     `json:"wishlisted"`
}

func (h *Handler) viewOfProductWishlisted(p model.Product) productView {
	v := viewOfProduct(p)
	v.Wishlisted = h.wishlist.Contains(p.ID)
	return v
}

func viewOfProduct(p model.Product) productView {
	return productView{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		PriceCents:   p.PriceCents,
		PriceDisplay: model.FormatCents(p.PriceCents),
		Category:     p.Category,
		SubCategory:  p.SubCategory,
		Gender:       p.Gender,
		Sizes:        p.Sizes,
		ImageURL:     p.ImageURL,
		Images:       p.Images,
		Stock:        p.Stock,
	}
}

func viewsOf(products []model.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, viewOfProduct(p))
	}
	return out
}

type cartLineView struct {
	Product         productView `json:"product"`
	Quantity        int         `json:"quantity"`
	Variant         string      `json:"selectedSize,omitempty"`
	SubtotalCents   int64       `json:"subtotalCents"`
	SubtotalDisplay string      `json:"subtotalDisplay"`
}

type cartView struct {
	Lines        []cartLineView `json:"lines"`
	Count        int            `json:"count"`
	TotalCents   int64          `json:"totalCents"`
	TotalDisplay string         `json:"totalDisplay"`
}

func viewOfCart(lines []model.CartLine) cartView {
	views := make([]cartLineView, 0, len(lines))
	for _, l := range lines {
		views = append(views, cartLineView{
			Product:         viewOfProduct(l.Product),
			Quantity:        l.Quantity,
			Variant:         l.Variant,
			SubtotalCents:   l.Subtotal(),
			SubtotalDisplay: model.FormatCents(l.Subtotal()),
		})
	}
	total := model.CartTotal(lines)
	return cartView{
		Lines:        views,
		Count:        model.CartCount(lines),
		TotalCents:   total,
		TotalDisplay: model.FormatCents(total),
	}
}

type orderView struct {
	ID           string                `json:"id"`
	Items        []model.OrderItem     `json:"items"`
	TotalCents   int64                 `json:"totalCents"`
	TotalDisplay string                `json:"totalDisplay"`
	Status       string                `json:"status"`
	Shipping     model.ShippingDetails `json:"shipping"`
	PlacedAt     string                `json:"placedAt,omitempty"`
}

func viewOfOrder(o model.Order) orderView {
	placedAt := ""
	if !o.PlacedAt.IsZero() {
		placedAt = o.PlacedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return orderView{
		ID:           o.ID,
		Items:        o.Items,
		TotalCents:   o.TotalCents,
		TotalDisplay: model.FormatCents(o.TotalCents),
		Status:       o.Status,
		Shipping:     o.Shipping,
		PlacedAt:     placedAt,
	}
}
