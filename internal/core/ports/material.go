package ports

import (
	"context"

	"github.com/stocktrack/inventory-api/internal/core/domain"
)

// MaterialRepository defines inventory item persistence.
type MaterialRepository interface {
	Insert(ctx context.Context, m *domain.Material) (*domain.Material, error)
	FindByID(ctx context.Context, id string) (*domain.Material, error)
	List(ctx context.Context) ([]domain.Material, error)
	Update(ctx context.Context, m *domain.Material) (*domain.Material, error)
	Delete(ctx context.Context, id string) error
}

// MaterialInput carries the writable material fields.
type MaterialInput struct {
	SKU      string
	Name     string
	Category string
	Quantity int
	Unit     string
	Location string
}

type MaterialService interface {
	Create(ctx context.Context, createdBy string, in MaterialInput) (*domain.Material, error)
	Get(ctx context.Context, id string) (*domain.Material, error)
	List(ctx context.Context) ([]domain.Material, error)
	Update(ctx context.Context, id string, in MaterialInput) (*domain.Material, error)
	Delete(ctx context.Context, id string) error
}
