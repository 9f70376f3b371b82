package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stocktrack/inventory-api/internal/core/domain"
	"github.com/stocktrack/inventory-api/internal/core/ports"
)

type stubMaterialRepo struct {
	byID   map[string]*domain.Material
	nextID int
}

func newStubMaterialRepo() *stubMaterialRepo {
	return &stubMaterialRepo{byID: make(map[string]*domain.Material)}
}

func (r *stubMaterialRepo) Insert(_ context.Context, m *domain.Material) (*domain.Material, error) {
	for _, existing := range r.byID {
		if existing.SKU == m.SKU {
			return nil, domain.ErrDuplicateSKU
		}
	}
	c := *m
	r.nextID++
	c.ID = fmt.Sprintf("m%d", r.nextID)
	r.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubMaterialRepo) FindByID(_ context.Context, id string) (*domain.Material, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrMaterialNotFound
	}
	c := *m
	return &c, nil
}

func (r *stubMaterialRepo) List(_ context.Context) ([]domain.Material, error) {
	out := make([]domain.Material, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubMaterialRepo) Update(_ context.Context, m *domain.Material) (*domain.Material, error) {
	if _, ok := r.byID[m.ID]; !ok {
		return nil, domain.ErrMaterialNotFound
	}
	c := *m
	r.byID[m.ID] = &c
	out := c
	return &out, nil
}

func (r *stubMaterialRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrMaterialNotFound
	}
	delete(r.byID, id)
	return nil
}

func TestMaterialService_CreateAndUpdate(t *testing.T) {
	svc := NewMaterialService(newStubMaterialRepo())
	ctx := context.Background()

	m, err := svc.Create(ctx, "u1", ports.MaterialInput{SKU: "SKU-1", Name: "Bolt M6", Quantity: 100, Unit: "pcs"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.ID == "" || m.CreatedBy != "u1" {
		t.Fatalf("unexpected material: %+v", m)
	}

	updated, err := svc.Update(ctx, m.ID, ports.MaterialInput{Quantity: 80, Location: "A-12"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Quantity != 80 || updated.Location != "A-12" || updated.Name != "Bolt M6" {
		t.Fatalf("partial update went wrong: %+v", updated)
	}
}

func TestMaterialService_CreateRejectsMissingFields(t *testing.T) {
	svc := NewMaterialService(newStubMaterialRepo())
	if _, err := svc.Create(context.Background(), "u1", ports.MaterialInput{Name: "no sku"}); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMaterialService_Delete(t *testing.T) {
	svc := NewMaterialService(newStubMaterialRepo())
	ctx := context.Background()

	m, _ := svc.Create(ctx, "u1", ports.MaterialInput{SKU: "SKU-2", Name: "Nut M6", Quantity: 10})
	if err := svc.Delete(ctx, m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, m.ID); err != domain.ErrMaterialNotFound {
		t.Fatalf("expected ErrMaterialNotFound, got %v", err)
	}
}
