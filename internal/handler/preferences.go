package handler

import (
	"net/http"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/localstore"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
)

type themeResponse struct {
	Theme string `json:"theme"`
}

// handleGetTheme returns the persisted UI theme, defaulting to light.
// A corrupt stored value falls back to the default.
func (h *Handler) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	theme := "light"
	var stored string
	if found, err := h.local.Get(localstore.BucketTheme, &stored); err == nil && found {
		if stored == "light" || stored == "dark" {
			theme = stored
		}
	}
	h.writeJSON(w, http.StatusOK, themeResponse{Theme: theme})
}

func (h *Handler) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeResponse
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Theme != "light" && req.Theme != "dark" {
		h.writeError(w, model.NewValidationError("theme", "must be light or dark"))
		return
	}
	if err := h.local.Put(localstore.BucketTheme, req.Theme); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, req)
}
