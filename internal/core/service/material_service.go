package service

import (
	"context"
	"time"

	"github.com/stocktrack/inventory-api/internal/core/domain"
	"github.com/stocktrack/inventory-api/internal/core/ports"
)

// MaterialService implements the inventory CRUD rules.
type MaterialService struct {
	repo ports.MaterialRepository
	now  func() time.Time
}

func NewMaterialService(repo ports.MaterialRepository) *MaterialService {
	return &MaterialService{repo: repo, now: time.Now}
}

func (s *MaterialService) Create(ctx context.Context, createdBy string, in ports.MaterialInput) (*domain.Material, error) {
	if in.SKU == "" || in.Name == "" || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := s.now().UTC()
	m := &domain.Material{
		SKU:       in.SKU,
		Name:      in.Name,
		Category:  in.Category,
		Quantity:  in.Quantity,
		Unit:      in.Unit,
		Location:  in.Location,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.repo.Insert(ctx, m)
}

func (s *MaterialService) Get(ctx context.Context, id string) (*domain.Material, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *MaterialService) List(ctx context.Context) ([]domain.Material, error) {
	return s.repo.List(ctx)
}

func (s *MaterialService) Update(ctx context.Context, id string, in ports.MaterialInput) (*domain.Material, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.SKU != "" {
		m.SKU = in.SKU
	}
	if in.Name != "" {
		m.Name = in.Name
	}
	if in.Category != "" {
		m.Category = in.Category
	}
	if in.Quantity >= 0 {
		m.Quantity = in.Quantity
	}
	if in.Unit != "" {
		m.Unit = in.Unit
	}
	if in.Location != "" {
		m.Location = in.Location
	}
	m.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, m)
}

func (s *MaterialService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
