package handler

import (
	"net/http"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
)

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size,omitempty"`
}

type adjustQuantityRequest struct {
	Size  string `json:"size,omitempty"`
	Delta int    `json:"delta"`
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, viewOfCart(h.cart.Lines()))
}

// handleAddToCart resolves the product from the catalog and adds one
// unit. The catalog lookup happens here so the cart line carries a
// point-in-time product snapshot.
func (h *Handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.ProductID == "" {
		h.writeError(w, model.NewValidationError("productId", "required"))
		return
	}

	product, err := h.backend.FetchProduct(r.Context(), req.ProductID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.cart.AddLine(*product, req.Size); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, viewOfCart(h.cart.Lines()))
}

func (h *Handler) handleAdjustQuantity(w http.ResponseWriter, r *http.Request) {
	var req adjustQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Delta == 0 {
		h.writeError(w, model.NewValidationError("delta", "must be non-zero"))
		return
	}

	key := model.LineKey{ProductID: r.PathValue("productID"), Variant: req.Size}
	h.cart.AdjustQuantity(key, req.Delta)
	h.writeJSON(w, http.StatusOK, viewOfCart(h.cart.Lines()))
}

func (h *Handler) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	key := model.LineKey{
		ProductID: r.PathValue("productID"),
		Variant:   r.URL.Query().Get("size"),
	}
	h.cart.RemoveLine(key)
	h.writeJSON(w, http.StatusOK, viewOfCart(h.cart.Lines()))
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear()
	h.writeJSON(w, http.StatusOK, viewOfCart(h.cart.Lines()))
}
