package domain

import "time"

// Role is a privilege level in a fixed ascending hierarchy.
type Role string

const (
	RoleUser    Role = "user"
	RoleSupport Role = "support"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// roleRanks defines the total order over the role set. Higher rank means
// more privilege. Both authorization styles (hierarchical and
// set-membership) derive from this single table.
var roleRanks = map[Role]int{
	RoleUser:    1,
	RoleSupport: 2,
	RoleManager: 3,
	RoleAdmin:   4,
}

// Rank returns the numeric privilege rank of r, or 0 for an unknown role.
func (r Role) Rank() int {
	return roleRanks[r]
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// AtLeast reports whether r carries at least the privilege of min.
// Unknown roles rank 0 and therefore never satisfy any requirement.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r.Rank() >= min.Rank()
}

// ParseRole returns the Role for s, or ErrInvalidRole when s is not in the
// enumerated set. The empty string maps to the lowest privilege role.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleUser, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// User models an account in the system. PasswordHash is never serialized
// to clients.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Active       bool      `json:"active"`
	LastLogin    time.Time `json:"last_login,omitempty"`
	Department   string    `json:"department,omitempty"`
	Position     string    `json:"position,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Locale       string    `json:"locale,omitempty"`
	Timezone     string    `json:"timezone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
