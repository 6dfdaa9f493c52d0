// Package handler provides the gateway's local HTTP API. The UI and
// command line client drive the storefront session through it.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/backend"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/cart"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/localstore"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/session"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/wishlist"
)

// Handler holds dependencies for the HTTP handlers.
type Handler struct {
	sessions *session.Store
	cart     *cart.Service
	wishlist *wishlist.Service
	backend  backend.Service
	local    localstore.Store
	logger   *slog.Logger
}

func New(sessions *session.Store, c *cart.Service, w *wishlist.Service, be backend.Service, local localstore.Store, logger *slog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		cart:     c,
		wishlist: w,
		backend:  be,
		local:    local,
		logger:   logger,
	}
}

// RegisterRoutes registers all HTTP routes with the given ServeMux.
// Uses Go 1.22+ method routing patterns.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Session
	mux.HandleFunc("POST /api/session/login", h.handleLogin)
	mux.HandleFunc("POST /api/session/register", h.handleRegister)
	mux.HandleFunc("POST /api/session/logout", h.handleLogout)
	mux.HandleFunc("GET /api/session", h.handleGetSession)

	// Catalog
	mux.HandleFunc("GET /api/products", h.handleListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.handleGetProduct)

	// Cart
	mux.HandleFunc("GET /api/cart", h.handleGetCart)
	mux.HandleFunc("POST /api/cart/lines", h.handleAddToCart)
	mux.HandleFunc("PATCH /api/cart/lines/{productID}", h.handleAdjustQuantity)
	mux.HandleFunc("DELETE /api/cart/lines/{productID}", h.handleRemoveFromCart)
	mux.HandleFunc("DELETE /api/cart", h.handleClearCart)

	// Wishlist
	mux.HandleFunc("GET /api/wishlist", h.handleGetWishlist)
	mux.HandleFunc("POST /api/wishlist/toggle", h.handleToggleWishlist)
	mux.HandleFunc("DELETE /api/wishlist/{productID}", h.handleRemoveFromWishlist)

	// Checkout and orders
	mux.HandleFunc("POST /api/checkout", h.handleCheckout)
	mux.HandleFunc("GET /api/orders", h.handleListOrders)

	// Preferences
	mux.HandleFunc("GET /api/preferences/theme", h.handleGetTheme)
	mux.HandleFunc("PUT /api/preferences/theme", h.handleSetTheme)

	// MCP transport for agent clients
	mux.Handle("/mcp", h.NewMCPHandler())

	// Health check
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// === Response Helpers ===

// writeJSON sends a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError sends an error response, extracting status/code from
// APIError if present. Uses errors.As() to unwrap error chains.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		apiErr = &model.APIError{
			Code:       "INTERNAL_ERROR",
			Message:    "an internal error occurred",
			StatusCode: http.StatusInternalServerError,
		}
		h.logger.Error("internal error", slog.String("error", err.Error()))
	}

	h.writeJSON(w, apiErr.StatusCode, errorResponse{
		Error: errorBody{
			Code:    apiErr.Code,
			Message: apiErr.Message,
		},
	})
}

// errorResponse is the JSON structure for error responses.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MaxRequestBodySize limits JSON request bodies to 1MB.
const MaxRequestBodySize = 1 << 20

// decodeJSON reads JSON from the request body into v. Returns an
// APIError if decoding fails.
func decodeJSON(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.NewValidationError("body", "invalid JSON")
	}
	return nil
}

// decodeJSONOptional is decodeJSON for endpoints whose request body is
// optional. An empty body leaves v at its zero value.
func decodeJSONOptional(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return model.NewValidationError("body", "invalid JSON")
}

// shopper returns the signed-in shopper identity, or an auth error.
func (h *Handler) shopper() (*model.Identity, error) {
	ident := h.sessions.Identity(model.RoleShopper)
	if ident == nil {
		return nil, model.NewAuthError("sign in required")
	}
	return ident, nil
}
