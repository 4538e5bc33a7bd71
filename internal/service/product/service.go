package product

import (
	"context"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies an admin patch. Stock set here is an absolute value; checkout
// is the only other stock writer and goes through ReserveStock instead.
func (s *Service) Update(ctx context.Context, id string, in productrepo.UpdateInput) (*domain.Product, error) {
	return s.repo.Update(ctx, id, in)
}
