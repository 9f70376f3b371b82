package ports

import (
	"context"
	"time"

	"github.com/stocktrack/inventory-api/internal/core/domain"
)

// UserRepository defines user persistence. Email uniqueness is a store-level
// constraint: Create surfaces a concurrent duplicate as domain.ErrEmailInUse.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
