package orders

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/quotebook/quotebook/internal/shared"
	"github.com/quotebook/quotebook/internal/store"
)

// Service manages orders after conversion. Orders are only created by converting a quote.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs an order service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: shared.NewValidator()}
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListWhere(ctx context.Context, pred store.Predicate) ([]Order, error) {
	return s.repo.ListWhere(ctx, pred)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// ListRecent returns orders newest first, optionally narrowed to one status.
func (s *Service) ListRecent(ctx context.Context, status Status) ([]Order, error) {
	if status == "" {
		return s.repo.List(ctx)
	}
	if !status.Valid() {
		return nil, shared.NewValidationError("status", "unknown status "+strconv.Quote(string(status)))
	}
	return s.repo.ListWhere(ctx, store.Equals("status", string(status)))
}

// Update changes the delivery date, status or observations.
func (s *Service) Update(ctx context.Context, id int64, patch Patch) (*Order, error) {
	if err := shared.Validate(s.validate, patch); err != nil {
		return nil, err
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, shared.NewValidationError("status", "unknown status "+strconv.Quote(string(*patch.Status)))
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// UpdateStatus sets the status of order id.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error) {
	return s.Update(ctx, id, Patch{Status: &status})
}

// Advance moves the order one step along the production board.
func (s *Service) Advance(ctx context.Context, id int64) (*Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, ok := o.Status.Next()
	if !ok {
		return nil, shared.NewValidationError("status", fmt.Sprintf("order in status %q cannot advance", o.Status))
	}
	return s.UpdateStatus(ctx, id, next)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
