// Package settings owns the single company configuration record.
package settings

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductMode selects how much product detail the editor shows.
type ProductMode string

const (
	ProductModeSimple   ProductMode = "SIMPLE"
	ProductModeComplete ProductMode = "COMPLETE"
)

// PDFTheme names the document layout used by the external renderer.
type PDFTheme string

const (
	PDFThemeSimple  PDFTheme = "SIMPLE"
	PDFThemeModern  PDFTheme = "MODERN"
	PDFThemeClassic PDFTheme = "CLASSIC"
)

// Defaults applied on first-run setup.
const (
	DefaultCompanyName  = "Meu Negócio"
	DefaultObservations = "Orçamento válido por 7 dias."
)

// CompanySettings is the singleton configuration row.
type CompanySettings struct {
	CompanyName         string           `json:"companyName" validate:"required,min=1,max=200"`
	OwnerName           string           `json:"ownerName" validate:"max=200"`
	Phone               string           `json:"phone" validate:"max=50"`
	Email               *string          `json:"email,omitempty" validate:"omitempty,email"`
	Logo                *string          `json:"logo,omitempty"`
	DefaultObservations string           `json:"defaultObservations"`
	ProductMode         ProductMode      `json:"productMode" validate:"oneof=SIMPLE COMPLETE"`
	PDFTheme            PDFTheme         `json:"pdfTheme" validate:"oneof=SIMPLE MODERN CLASSIC"`
	ShippingRatePerKm   *decimal.Decimal `json:"shippingRatePerKm,omitempty"`
	OriginAddress       *string          `json:"originAddress,omitempty"`
	HasPassword         bool             `json:"hasPassword"`
	PasswordHash        *string          `json:"-"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}

// Patch lists the fields an update changes. The password is changed through SetPassword.
type Patch struct {
	CompanyName         *string          `json:"companyName,omitempty" validate:"omitempty,min=1,max=200"`
	OwnerName           *string          `json:"ownerName,omitempty" validate:"omitempty,max=200"`
	Phone               *string          `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email               *string          `json:"email,omitempty" validate:"omitempty,email"`
	Logo                *string          `json:"logo,omitempty"`
	DefaultObservations *string          `json:"defaultObservations,omitempty"`
	ProductMode         *ProductMode     `json:"productMode,omitempty" validate:"omitempty,oneof=SIMPLE COMPLETE"`
	PDFTheme            *PDFTheme        `json:"pdfTheme,omitempty" validate:"omitempty,oneof=SIMPLE MODERN CLASSIC"`
	ShippingRatePerKm   *decimal.Decimal `json:"shippingRatePerKm,omitempty"`
	OriginAddress       *string          `json:"originAddress,omitempty"`

	passwordHash *string
}

// Defaults returns the record created by first-run setup.
func Defaults() CompanySettings {
	return CompanySettings{
		CompanyName:         DefaultCompanyName,
		DefaultObservations: DefaultObservations,
		ProductMode:         ProductModeSimple,
		PDFTheme:            PDFThemeSimple,
	}
}
