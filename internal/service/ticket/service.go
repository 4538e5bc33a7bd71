package ticket

import (
	"context"

	"storefront/internal/domain"
	ticketrepo "storefront/internal/repository/ticket"
)

type Service struct {
	repo ticketrepo.Repository
}

func New(repo ticketrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Ticket, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	return s.repo.GetByCode(ctx, code)
}
