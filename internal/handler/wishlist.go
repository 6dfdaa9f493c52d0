package handler

import (
	"net/http"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
)

type toggleWishlistRequest struct {
	ProductID string `json:"productId"`
}

type toggleWishlistResponse struct {
	Saved   bool          `json:"saved"`
	Entries []productView `json:"entries"`
}

func (h *Handler) handleGetWishlist(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, viewsOf(h.wishlist.Entries()))
}

func (h *Handler) handleToggleWishlist(w http.ResponseWriter, r *http.Request) {
	var req toggleWishlistRequest
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

	saved := h.wishlist.Toggle(*product)
	h.writeJSON(w, http.StatusOK, toggleWishlistResponse{
		Saved:   saved,
		Entries: viewsOf(h.wishlist.Entries()),
	})
}

func (h *Handler) handleRemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	h.wishlist.Remove(r.PathValue("productID"))
	h.writeJSON(w, http.StatusOK, viewsOf(h.wishlist.Entries()))
}
