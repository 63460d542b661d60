package model

// Roles assignable to dashboard users
const (
	RoleAdmin  = "admin"
	RoleUser   = "user"
	RoleViewer = "viewer"
)

// User is the authenticated identity for one dashboard session. The same
// shape is produced whether the account came from the seeded admin or from
// self-registration, so consumers never branch on how it was established.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Picture string `json:"picture,omitempty"`
}
