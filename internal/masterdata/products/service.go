package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	mdshared "github.com/quotebook/quotebook/internal/masterdata/shared"
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

func (s *Service) Add(ctx context.Context, req CreateRequest) (*Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := shared.Validate(s.validate, req); err != nil {
		return nil, err
	}
	if err := checkAmounts(req.Price, req.CostPrice); err != nil {
		return nil, err
	}
	p := Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		CostPrice:   req.CostPrice,
		Unit:        strings.TrimSpace(req.Unit),
		PhotoBase64: req.PhotoBase64,
		CategoryID:  req.CategoryID,
		Active:      true,
	}
	if p.Unit == "" {
		p.Unit = mdshared.DefaultUnit
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	id, err := s.repo.Add(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) (*Product, error) {
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}
	if err := shared.Validate(s.validate, patch); err != nil {
		return nil, err
	}
	if err := checkAmounts(patch.Price, patch.CostPrice); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListWhere(ctx context.Context, pred store.Predicate) ([]Product, error) {
	return s.repo.ListWhere(ctx, pred)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// ListActive returns the products offered in the quote editor.
func (s *Service) ListActive(ctx context.Context) ([]Product, error) {
	return s.repo.ListWhere(ctx, store.Equals("active", true))
}

// ToggleActive flips the active flag and returns the stored product.
func (s *Service) ToggleActive(ctx context.Context, id int64) (*Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	active := !p.Active
	if err := s.repo.Update(ctx, id, Patch{Active: &active}); err != nil {
		return nil, fmt.Errorf("toggle product: %w", err)
	}
	p.Active = active
	return p, nil
}

// Search filters by name ignoring case and accents. activeOnly restricts the
// result to active products.
func (s *Service) Search(ctx context.Context, term string, activeOnly bool) ([]Product, error) {
	var (
		all []Product
		err error
	)
	if activeOnly {
		all, err = s.ListActive(ctx)
	} else {
		all, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(all))
	for _, p := range all {
		if shared.MatchesFold(p.Name, term) {
			out = append(out, p)
		}
	}
	return out, nil
}
