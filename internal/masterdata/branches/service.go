package branches

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/odyssey-erp/odyssey-stock/internal/auth"
	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/shared"
	"github.com/odyssey-erp/odyssey-stock/internal/platform/cache"
)

type Service struct {
	repo   Repository
	cache  *cache.JSONCache
	logger *slog.Logger
}

// NewService builds the branch service. The cache holds the public branch
// list and may be nil.
func NewService(repo Repository, c *cache.JSONCache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: c, logger: logger}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Branch, int, error) {
	return s.repo.List(ctx, filters)
}

// Save creates the branch when it has no id and updates it otherwise.
func (s *Service) Save(ctx context.Context, form BranchForm) (Branch, error) {
	branch := form.toBranch()
	if err := s.validate(branch); err != nil {
		return Branch{}, err
	}
	branch.Code = strings.ToUpper(strings.TrimSpace(branch.Code))
	branch.Name = strings.TrimSpace(branch.Name)

	var err error
	if branch.ID == "" {
		branch.ID = uuid.NewString()
		err = s.repo.Create(ctx, branch)
	} else {
		err = s.repo.Update(ctx, branch)
	}
	if err != nil {
		return Branch{}, err
	}
	s.invalidate(ctx)
	return branch, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ActiveOptions lists active branches for the login form, served from cache.
func (s *Service) ActiveOptions(ctx context.Context) ([]auth.BranchOption, error) {
	var options []auth.BranchOption
	err := s.cache.Fetch(ctx, &options, func(ctx context.Context) (any, error) {
		return s.repo.ActiveOptions(ctx)
	}, "active")
	return options, err
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("invalidate branch cache", slog.Any("error", err))
	}
}
