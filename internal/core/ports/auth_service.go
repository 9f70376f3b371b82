package ports

import (
	"context"

	"github.com/stocktrack/inventory-api/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration time.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Role       string
	Department string
	Position   string
	Phone      string
	Locale     string
	Timezone   string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	CreateUser(ctx context.Context, in RegisterInput) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	Refresh(ctx context.Context, identity domain.Identity) (string, error)
}

// LoginLimiter throttles repeated failed logins per account. Implementations
// must be safe for concurrent use.
type LoginLimiter interface {
	// Allowed reports whether another attempt for email may proceed.
	Allowed(ctx context.Context, email string) (bool, error)
	// RecordFailure notes a failed attempt for email.
	RecordFailure(ctx context.Context, email string) error
	// Reset clears the failure counter after a successful login.
	Reset(ctx context.Context, email string) error
}
