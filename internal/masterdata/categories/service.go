package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/quotebook/quotebook/internal/shared"
	"github.com/quotebook/quotebook/internal/store"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: shared.NewValidator()}
}

func (s *Service) Add(ctx context.Context, c Category) (*Category, error) {
	c.ID = 0
	c.Name = strings.TrimSpace(c.Name)
	if err := shared.Validate(s.validate, c); err != nil {
		return nil, err
	}
	id, err := s.repo.Add(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	c.ID = id
	return &c, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) (*Category, error) {
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}
	if err := shared.Validate(s.validate, patch); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Category, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListWhere(ctx context.Context, pred store.Predicate) ([]Category, error) {
	return s.repo.ListWhere(ctx, pred)
}

// Names indexes category names by id for label lookups.
func (s *Service) Names(ctx context.Context) (map[int64]string, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(all))
	for _, c := range all {
		names[c.ID] = c.Name
	}
	return names, nil
}
