// Package auth guards the app behind the single locally stored password.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/quotebook/quotebook/internal/settings"
	"github.com/quotebook/quotebook/internal/shared"
)

// SettingsStore is the part of the settings service auth relies on.
type SettingsStore interface {
	Create(ctx context.Context, cfg settings.CompanySettings, password string) (*settings.CompanySettings, error)
	IsConfigured(ctx context.Context) (bool, error)
	VerifyPassword(ctx context.Context, password string) error
}

// SetupRequest carries the first-run form.
type SetupRequest struct {
	CompanyName string  `json:"companyName" validate:"omitempty,max=200"`
	OwnerName   string  `json:"ownerName" validate:"required,max=200"`
	Phone       string  `json:"phone" validate:"max=50"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Password    string  `json:"password" validate:"required,min=4"`
}

// Status reports whether setup ran and whether the caller is unlocked.
type Status struct {
	Configured bool `json:"configured"`
	Unlocked   bool `json:"unlocked"`
}

// Service wraps authentication business rules.
type Service struct {
	settings SettingsStore
	validate *validator.Validate
}

// NewService constructs a new Service.
func NewService(store SettingsStore) *Service {
	return &Service{settings: store, validate: shared.NewValidator()}
}

// Setup creates the settings record with first-run defaults and the hashed password.
// A second call fails with shared.ErrConflict.
func (s *Service) Setup(ctx context.Context, req SetupRequest) (*settings.CompanySettings, error) {
	req.OwnerName = strings.TrimSpace(req.OwnerName)
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if err := shared.Validate(s.validate, req); err != nil {
		return nil, err
	}
	configured, err := s.settings.IsConfigured(ctx)
	if err != nil {
		return nil, err
	}
	if configured {
		return nil, fmt.Errorf("setup already completed: %w", shared.ErrConflict)
	}

	cfg := settings.Defaults()
	if req.CompanyName != "" {
		cfg.CompanyName = req.CompanyName
	}
	cfg.OwnerName = req.OwnerName
	cfg.Phone = strings.TrimSpace(req.Phone)
	cfg.Email = req.Email
	return s.settings.Create(ctx, cfg, req.Password)
}

// Unlock checks password. shared.ErrNotFound means setup has not run yet.
func (s *Service) Unlock(ctx context.Context, password string) error {
	err := s.settings.VerifyPassword(ctx, password)
	if errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("setup required: %w", err)
	}
	return err
}

// Status reports the setup state and whether sess is unlocked.
func (s *Service) Status(ctx context.Context, sess *shared.Session) (Status, error) {
	configured, err := s.settings.IsConfigured(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{Configured: configured, Unlocked: configured && sess.Unlocked()}, nil
}
