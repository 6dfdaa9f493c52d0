package handler

import (
	"net/http"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
)

type loginRequest struct {
	Username string     `json:"username"`
	Password string     `json:"password"`
	Role     model.Role `json:"role,omitempty"` // defaults to shopper
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type logoutRequest struct {
	Role model.Role `json:"role,omitempty"`
}

// sessionView is an identity as returned to the UI. The bearer token
// never leaves the gateway.
type sessionView struct {
	UserID   string     `json:"userId"`
	Username string     `json:"username"`
	Email    string     `json:"email,omitempty"`
	FullName string     `json:"fullName,omitempty"`
	Role     model.Role `json:"role"`
}

func viewOf(ident *model.Identity) *sessionView {
	if ident == nil {
		return nil
	}
	return &sessionView{
		UserID:   ident.UserID,
		Username: ident.Username,
		Email:    ident.Email,
		FullName: ident.FullName,
		Role:     ident.Role,
	}
}

// handleLogin authenticates against the backend and opens the slot for
// the requested role. Opening the admin slot requires an admin account;
// the shopper slot accepts any account. A successful shopper login
// triggers the guest cart and wishlist reconciliation before the
// response is written.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		h.writeError(w, model.NewValidationError("credentials", "username and password are required"))
		return
	}
	role := req.Role
	if role == "" {
		role = model.RoleShopper
	}
	if !role.Valid() {
		h.writeError(w, model.NewValidationError("role", "unknown role"))
		return
	}

	ident, err := h.backend.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if role == model.RoleAdmin && ident.Role != model.RoleAdmin {
		h.writeError(w, model.NewAuthError("admin access required"))
		return
	}

	// The slot decides the role the identity lives under; an admin
	// account can still shop through the shopper slot.
	ident.Role = role
	if err := h.sessions.Login(*ident); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, viewOf(ident))
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		h.writeError(w, model.NewValidationError("registration", "username, email and password are required"))
		return
	}

	ident, err := h.backend.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	ident.Role = model.RoleShopper
	if err := h.sessions.Login(*ident); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, viewOf(ident))
}

// handleLogout clears one role slot. The other slot stays signed in.
// The body is optional; no body signs out the shopper.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := decodeJSONOptional(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	role := req.Role
	if role == "" {
		role = model.RoleShopper
	}
	if !role.Valid() {
		h.writeError(w, model.NewValidationError("role", "unknown role"))
		return
	}

	if err := h.sessions.Logout(role); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]*sessionView{
		"shopper": viewOf(h.sessions.Identity(model.RoleShopper)),
		"admin":   viewOf(h.sessions.Identity(model.RoleAdmin)),
	})
}
