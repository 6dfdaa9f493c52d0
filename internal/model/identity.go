package model

// Role names an independent session slot. A shopper and an admin can be
// signed in at the same time without touching each other's slot.
type Role string

const (
	RoleShopper Role = "shopper"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleShopper || r == RoleAdmin
}

// Identity is an authenticated user bound to one role slot. Token is the
// bearer credential presented to the backend on authenticated calls.
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Token    string `json:"token"`
	Role     Role   `json:"role"`
}
