package handler

import (
	"net/http"
	"strings"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
)

type checkoutRequest struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Zip      string `json:"zip"`
	Phone    string `json:"phone"`
}

func (r checkoutRequest) validate() error {
	required := map[string]string{
		"fullName": r.FullName,
		"address":  r.Address,
		"city":     r.City,
		"zip":      r.Zip,
		"phone":    r.Phone,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return model.NewValidationError(field, "required")
		}
	}
	return nil
}

// handleCheckout places an order for the signed-in shopper from the
// current cart. Order prices come from the cart's product snapshots.
// The cart empties only after the backend accepts the order.
func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ident, err := h.shopper()
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		h.writeError(w, err)
		return
	}

	lines := h.cart.Lines()
	if len(lines) == 0 {
		h.writeError(w, model.NewValidationError("cart", "cart is empty"))
		return
	}

	items, total := model.OrderFromCart(lines)
	order := model.Order{
		UserID:     ident.UserID,
		Username:   ident.Username,
		Items:      items,
		TotalCents: total,
		Shipping: model.ShippingDetails{
			FullName: req.FullName,
			Address:  req.Address,
			City:     req.City,
			Zip:      req.Zip,
			Phone:    req.Phone,
		},
	}

	placed, err := h.backend.PlaceOrder(r.Context(), ident.Token, order)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.cart.Clear()
	h.writeJSON(w, http.StatusCreated, viewOfOrder(*placed))
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	ident, err := h.shopper()
	if err != nil {
		h.writeError(w, err)
		return
	}

	orders, err := h.backend.FetchOrders(r.Context(), ident.Token, ident.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, viewOfOrder(o))
	}
	h.writeJSON(w, http.StatusOK, views)
}
