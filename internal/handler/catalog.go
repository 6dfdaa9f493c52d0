package handler

import (
	"net/http"
	"strings"
)

// handleListProducts serves the catalog, with optional in-process
// filtering on category, gender and a free-text query.
func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("category")
	gender := q.Get("gender")
	search := strings.ToLower(strings.TrimSpace(q.Get("q")))

	products, err := func() (ps []productView, err error) {
		var raw []productView
		if category != "" {
			got, err := h.backend.FetchProductsByCategory(r.Context(), category)
			if err != nil {
				return nil, err
			}
			raw = viewsOf(got)
		} else {
			got, err := h.backend.FetchProducts(r.Context())
			if err != nil {
				return nil, err
			}
			raw = viewsOf(got)
		}

		filtered := raw[:0]
		for _, p := range raw {
			if gender != "" && !strings.EqualFold(p.Gender, gender) {
				continue
			}
			if search != "" && !matchesSearch(p, search) {
				continue
			}
			filtered = append(filtered, p)
		}
		return filtered, nil
	}()
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, products)
}

func matchesSearch(p productView, search string) bool {
	return strings.Contains(strings.ToLower(p.Name), search) ||
		strings.Contains(strings.ToLower(p.Category), search) ||
		strings.Contains(strings.ToLower(p.SubCategory), search)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.backend.FetchProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, viewOfProduct(*p))
}
