package categories

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Category, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Save(ctx context.Context, form CategoryForm) (Category, error) {
	c := Category{
		ID:          form.ID,
		Code:        strings.ToUpper(strings.TrimSpace(form.Code)),
		Name:        strings.TrimSpace(form.Name),
		Description: strings.TrimSpace(form.Description),
	}
	if err := s.validate(c); err != nil {
		return Category{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
		return c, s.repo.Create(ctx, c)
	}
	return c, s.repo.Update(ctx, c)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errInvalidID
	}
	return s.repo.Delete(ctx, id)
}
