package products

import (
	"github.com/shopspring/decimal"

	"github.com/quotebook/quotebook/internal/shared"
)

func checkAmounts(price, cost *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return shared.NewValidationError("price", "must be greater than or equal to 0")
	}
	if cost != nil && cost.IsNegative() {
		return shared.NewValidationError("costPrice", "must be greater than or equal to 0")
	}
	return nil
}
