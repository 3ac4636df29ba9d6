package settings

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/quotebook/quotebook/internal/store"
)

// slotID is the only primary key the settings table accepts.
const slotID = 1

// Repository is a single-slot store: at most one record ever exists.
type Repository interface {
	Add(ctx context.Context, s CompanySettings) error
	Update(ctx context.Context, patch Patch) error
	Get(ctx context.Context) (*CompanySettings, error)
}

const columns = `company_name, owner_name, phone, email, logo, default_observations, product_mode,
	pdf_theme, password_hash, shipping_rate_per_km, origin_address, updated_at`

// PGRepository stores settings in the id=1 row.
type PGRepository struct {
	db store.DBTX
}

// NewRepository constructs a repository over db.
func NewRepository(db store.DBTX) *PGRepository {
	return &PGRepository{db: db}
}

// Add inserts the record. A second call fails with shared.ErrConflict through the
// primary key.
func (r *PGRepository) Add(ctx context.Context, s CompanySettings) error {
	_, err := r.db.Exec(ctx, `INSERT INTO settings (id, company_name, owner_name, phone, email, logo,
		default_observations, product_mode, pdf_theme, password_hash, shipping_rate_per_km, origin_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		slotID, s.CompanyName, s.OwnerName, s.Phone, s.Email, s.Logo, s.DefaultObservations,
		string(s.ProductMode), string(s.PDFTheme), s.PasswordHash, nullDecimal(s.ShippingRatePerKm), s.OriginAddress,
	)
	if err != nil {
		return store.Translate("add settings", err)
	}
	return nil
}

// Update merges patch into the record.
func (r *PGRepository) Update(ctx context.Context, patch Patch) error {
	var set store.Assignments
	if patch.CompanyName != nil {
		set.Set("company_name", *patch.CompanyName)
	}
	if patch.OwnerName != nil {
		set.Set("owner_name", *patch.OwnerName)
	}
	if patch.Phone != nil {
		set.Set("phone", *patch.Phone)
	}
	if patch.Email != nil {
		set.Set("email", *patch.Email)
	}
	if patch.Logo != nil {
		set.Set("logo", *patch.Logo)
	}
	if patch.DefaultObservations != nil {
		set.Set("default_observations", *patch.DefaultObservations)
	}
	if patch.ProductMode != nil {
		set.Set("product_mode", string(*patch.ProductMode))
	}
	if patch.PDFTheme != nil {
		set.Set("pdf_theme", string(*patch.PDFTheme))
	}
	if patch.ShippingRatePerKm != nil {
		set.Set("shipping_rate_per_km", *patch.ShippingRatePerKm)
	}
	if patch.OriginAddress != nil {
		set.Set("origin_address", *patch.OriginAddress)
	}
	if patch.passwordHash != nil {
		set.Set("password_hash", *patch.passwordHash)
	}
	return store.UpdateByID(ctx, r.db, store.TableSettings, slotID, set, true)
}

// Get loads the record. shared.ErrNotFound means first-run setup is required.
func (r *PGRepository) Get(ctx context.Context) (*CompanySettings, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM settings WHERE id = $1", columns), slotID)
	var (
		s           CompanySettings
		productMode string
		pdfTheme    string
		rate        decimal.NullDecimal
	)
	err := row.Scan(&s.CompanyName, &s.OwnerName, &s.Phone, &s.Email, &s.Logo, &s.DefaultObservations,
		&productMode, &pdfTheme, &s.PasswordHash, &rate, &s.OriginAddress, &s.UpdatedAt)
	if err != nil {
		return nil, store.Translate("get settings", err)
	}
	s.ProductMode = ProductMode(productMode)
	s.PDFTheme = PDFTheme(pdfTheme)
	if rate.Valid {
		s.ShippingRatePerKm = &rate.Decimal
	}
	s.HasPassword = s.PasswordHash != nil && *s.PasswordHash != ""
	return &s, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
