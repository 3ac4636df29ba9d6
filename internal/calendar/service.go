package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/quotebook/quotebook/internal/shared"
	"github.com/quotebook/quotebook/internal/store"
)

// Service manages calendar notes.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs a calendar service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: shared.NewValidator()}
}

// UpsertForDate stores text as the note for date. Blank text removes the note and
// returns nil; removing an absent note is not an error.
func (s *Service) UpsertForDate(ctx context.Context, date, text string) (*Note, error) {
	date = strings.TrimSpace(date)
	if !shared.ValidDate(date) {
		return nil, shared.NewValidationError("date", "must be a date in YYYY-MM-DD form")
	}
	if strings.TrimSpace(text) == "" {
		if err := s.repo.DeleteByDate(ctx, date); err != nil {
			return nil, fmt.Errorf("clear note %s: %w", date, err)
		}
		return nil, nil
	}
	id, err := s.repo.Upsert(ctx, date, text)
	if err != nil {
		return nil, fmt.Errorf("save note %s: %w", date, err)
	}
	return s.repo.Get(ctx, id)
}

// GetByDate returns the note for date or shared.ErrNotFound.
func (s *Service) GetByDate(ctx context.Context, date string) (*Note, error) {
	if !shared.ValidDate(date) {
		return nil, shared.NewValidationError("date", "must be a date in YYYY-MM-DD form")
	}
	notes, err := s.repo.ListWhere(ctx, store.Equals("note_date", date))
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, fmt.Errorf("note %s: %w", date, shared.ErrNotFound)
	}
	return &notes[0], nil
}

// TextFor returns the note text for date, empty when there is none.
func (s *Service) TextFor(ctx context.Context, date string) (string, error) {
	n, err := s.GetByDate(ctx, date)
	if errors.Is(err, shared.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return n.Text, nil
}

// ListBetween returns the notes dated within [from, to].
func (s *Service) ListBetween(ctx context.Context, from, to string) ([]Note, error) {
	if !shared.ValidDate(from) || !shared.ValidDate(to) {
		return nil, shared.NewValidationError("range", "bounds must be dates in YYYY-MM-DD form")
	}
	return s.repo.ListWhere(ctx, store.Between("note_date", from, to))
}

// Add creates a note directly.
func (s *Service) Add(ctx context.Context, n Note) (*Note, error) {
	n.ID = 0
	if err := shared.Validate(s.validate, n); err != nil {
		return nil, err
	}
	id, err := s.repo.Add(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Update merges patch into note id.
func (s *Service) Update(ctx context.Context, id int64, patch Patch) (*Note, error) {
	if err := shared.Validate(s.validate, patch); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Delete removes note id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Get returns note id.
func (s *Service) Get(ctx context.Context, id int64) (*Note, error) {
	return s.repo.Get(ctx, id)
}

// List returns every note.
func (s *Service) List(ctx context.Context) ([]Note, error) {
	return s.repo.List(ctx)
}

// Count returns the number of notes.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
