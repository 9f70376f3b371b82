package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/stocktrack/inventory-api/internal/core/domain"
)

const (
	// MinPasswordLength is the minimum accepted plaintext length.
	MinPasswordLength = 6
	// DefaultBcryptCost is high enough to resist offline brute force while
	// staying acceptable per-request.
	DefaultBcryptCost = 12
)

// PasswordHasher owns the password lifecycle: strength validation, hashing
// on write, verification on login. Every code path that stores a password
// goes through SetPassword so no plaintext can ever reach the repository.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash validates plaintext strength and derives a salted bcrypt hash.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) < MinPasswordLength {
		return "", domain.ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// SetPassword is the single entry point for assigning a user's password,
// shared by registration, admin creation, and password change.
func (h *PasswordHasher) SetPassword(u *domain.User, plaintext string) error {
	hash, err := h.Hash(plaintext)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// Verify reports whether plaintext matches storedHash. A mismatch is not an
// error; only an unexpected bcrypt failure is.
func (h *PasswordHasher) Verify(plaintext, storedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case err == bcrypt.ErrMismatchedHashAndPassword:
		return false, nil
	default:
		return false, fmt.Errorf("compare password: %w", err)
	}
}
