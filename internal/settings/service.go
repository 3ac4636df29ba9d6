package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	salesshared "github.com/quotebook/quotebook/internal/sales/shared"
	"github.com/quotebook/quotebook/internal/shared"
)

// Service validates and applies settings changes.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs a settings service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: shared.NewValidator()}
}

// Create stores the first settings record. An empty password leaves the app without one.
func (s *Service) Create(ctx context.Context, cfg CompanySettings, password string) (*CompanySettings, error) {
	cfg.CompanyName = strings.TrimSpace(cfg.CompanyName)
	cfg.OwnerName = strings.TrimSpace(cfg.OwnerName)
	if cfg.ProductMode == "" {
		cfg.ProductMode = ProductModeSimple
	}
	if cfg.PDFTheme == "" {
		cfg.PDFTheme = PDFThemeSimple
	}
	if err := shared.Validate(s.validate, cfg); err != nil {
		return nil, err
	}
	if err := checkRate(cfg.ShippingRatePerKm); err != nil {
		return nil, err
	}
	cfg.PasswordHash = nil
	if password != "" {
		hash, err := hashPassword(password)
		if err != nil {
			return nil, err
		}
		cfg.PasswordHash = &hash
	}
	if err := s.repo.Add(ctx, cfg); err != nil {
		return nil, fmt.Errorf("create settings: %w", err)
	}
	return s.repo.Get(ctx)
}

// Get returns the settings; shared.ErrNotFound means setup has not run.
func (s *Service) Get(ctx context.Context) (*CompanySettings, error) {
	return s.repo.Get(ctx)
}

// IsConfigured reports whether first-run setup has completed.
func (s *Service) IsConfigured(ctx context.Context) (bool, error) {
	_, err := s.repo.Get(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, shared.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Update merges patch into the stored settings.
func (s *Service) Update(ctx context.Context, patch Patch) (*CompanySettings, error) {
	if patch.CompanyName != nil {
		trimmed := strings.TrimSpace(*patch.CompanyName)
		patch.CompanyName = &trimmed
	}
	if err := shared.Validate(s.validate, patch); err != nil {
		return nil, err
	}
	if err := checkRate(patch.ShippingRatePerKm); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, patch); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return s.repo.Get(ctx)
}

// SetPassword replaces the stored password hash.
func (s *Service) SetPassword(ctx context.Context, password string) error {
	if strings.TrimSpace(password) == "" {
		return shared.NewValidationError("password", "must not be blank")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, Patch{passwordHash: &hash}); err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return nil
}

// VerifyPassword checks password against the stored hash. When no password was ever
// set, any non-empty password is accepted.
func (s *Service) VerifyPassword(ctx context.Context, password string) error {
	if password == "" {
		return shared.ErrInvalidCredentials
	}
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return err
	}
	if !cfg.HasPassword {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*cfg.PasswordHash), []byte(password)); err != nil {
		return shared.ErrInvalidCredentials
	}
	return nil
}

// DefaultObservations returns the text new quotations start with.
func (s *Service) DefaultObservations(ctx context.Context) (string, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return "", err
	}
	return cfg.DefaultObservations, nil
}

// ShippingRatePerKm returns the configured per-km rate.
func (s *Service) ShippingRatePerKm(ctx context.Context) (decimal.Decimal, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if cfg.ShippingRatePerKm == nil {
		return decimal.Zero, shared.NewValidationError("shippingRatePerKm", "is not configured")
	}
	return *cfg.ShippingRatePerKm, nil
}

// ShippingFeeFor prices a delivery of distanceKm at the configured rate.
func (s *Service) ShippingFeeFor(ctx context.Context, distanceKm decimal.Decimal) (decimal.Decimal, error) {
	if distanceKm.IsNegative() {
		return decimal.Zero, shared.NewValidationError("distanceKm", "must not be negative")
	}
	rate, err := s.ShippingRatePerKm(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return salesshared.ShippingFee(distanceKm, rate), nil
}

func checkRate(rate *decimal.Decimal) error {
	if rate != nil && rate.IsNegative() {
		return shared.NewValidationError("shippingRatePerKm", "must not be negative")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
