package domain

import "time"

// Identity is the verified content of a bearer token: who the caller is and
// what the token itself asserts. It carries no account state beyond what was
// true at issue time.
type Identity struct {
	UserID    string
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
