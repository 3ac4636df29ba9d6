package products

import "github.com/shopspring/decimal"

// CreateRequest carries a new product. Active defaults to true.
type CreateRequest struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	CostPrice   *decimal.Decimal `json:"costPrice,omitempty"`
	Unit        string           `json:"unit" validate:"max=20"`
	PhotoBase64 *string          `json:"photoBase64,omitempty"`
	CategoryID  *int64           `json:"categoryId,omitempty" validate:"omitempty,gt=0"`
	Active      *bool            `json:"active,omitempty"`
}

// Patch lists the fields an update changes.
type Patch struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	CostPrice   *decimal.Decimal `json:"costPrice,omitempty"`
	Unit        *string          `json:"unit,omitempty" validate:"omitempty,min=1,max=20"`
	PhotoBase64 *string          `json:"photoBase64,omitempty"`
	CategoryID  *int64           `json:"categoryId,omitempty" validate:"omitempty,gt=0"`
	Active      *bool            `json:"active,omitempty"`
}
