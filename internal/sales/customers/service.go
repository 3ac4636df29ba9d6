package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/quotebook/quotebook/internal/shared"
	"github.com/quotebook/quotebook/internal/store"
)

// Service validates customer writes before they reach the repository.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs a customer service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: shared.NewValidator()}
}

// Add creates a customer. Name and phone are required.
func (s *Service) Add(ctx context.Context, c Customer) (*Customer, error) {
	c.ID = 0
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	if err := shared.Validate(s.validate, c); err != nil {
		return nil, err
	}
	id, err := s.repo.Add(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Update merges patch into customer id.
func (s *Service) Update(ctx context.Context, id int64, patch Patch) (*Customer, error) {
	if id <= 0 {
		return nil, shared.NewValidationError("id", "is required")
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}
	if patch.Phone != nil {
		trimmed := strings.TrimSpace(*patch.Phone)
		patch.Phone = &trimmed
	}
	if err := shared.Validate(s.validate, patch); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a customer. Quotes and orders keep their name snapshot.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Get returns one customer.
func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

// List returns all customers.
func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.List(ctx)
}

// ListWhere returns customers matching pred.
func (s *Service) ListWhere(ctx context.Context, pred store.Predicate) ([]Customer, error) {
	return s.repo.ListWhere(ctx, pred)
}

// Count returns the number of customers.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Search matches term against the name, ignoring case and accents, or against the
// phone digits. An empty term returns every customer.
func (s *Service) Search(ctx context.Context, term string) ([]Customer, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return all, nil
	}
	digits := shared.Digits(term)
	out := make([]Customer, 0, len(all))
	for _, c := range all {
		if shared.MatchesFold(c.Name, term) || (digits != "" && strings.Contains(shared.Digits(c.Phone), digits)) {
			out = append(out, c)
		}
	}
	return out, nil
}
