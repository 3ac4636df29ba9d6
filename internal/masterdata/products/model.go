package products

import (
	"time"

	"github.com/shopspring/decimal"

	mdshared "github.com/quotebook/quotebook/internal/masterdata/shared"
)

// Product is a catalog entry. Price is the consumer price; CostPrice never leaves
// the back office.
type Product struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	CostPrice   *decimal.Decimal `json:"costPrice,omitempty"`
	Unit        string           `json:"unit"`
	PhotoBase64 *string          `json:"photoBase64,omitempty"`
	CategoryID  *int64           `json:"categoryId,omitempty"`
	Active      bool             `json:"active"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// Margin returns (price - cost) / price. ok is false without a positive cost price
// or when the price is zero.
func (p Product) Margin() (margin decimal.Decimal, ok bool) {
	if p.CostPrice == nil || !p.CostPrice.IsPositive() || !p.Price.IsPositive() {
		return decimal.Zero, false
	}
	return p.Price.Sub(*p.CostPrice).Div(p.Price), true
}

// CategoryLabel resolves the category name, tolerating dangling ids.
func (p Product) CategoryLabel(names map[int64]string) string {
	if p.CategoryID == nil {
		return mdshared.Uncategorized
	}
	if name, ok := names[*p.CategoryID]; ok {
		return name
	}
	return mdshared.Uncategorized
}
