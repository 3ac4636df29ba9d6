package quotations

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quotebook/quotebook/internal/masterdata/products"
	mdshared "github.com/quotebook/quotebook/internal/masterdata/shared"
	salesshared "github.com/quotebook/quotebook/internal/sales/shared"
	"github.com/quotebook/quotebook/internal/shared"
)

// ItemPatch lists the line fields an edit changes.
type ItemPatch struct {
	Name      *string          `json:"name,omitempty"`
	Quantity  *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
	Unit      *string          `json:"unit,omitempty"`
}

// Recompute re-derives every line subtotal, the quote subtotal and the total.
func (q *Quotation) Recompute() {
	subtotals := make([]decimal.Decimal, len(q.Items))
	for i := range q.Items {
		q.Items[i].Subtotal = salesshared.LineSubtotal(q.Items[i].Quantity, q.Items[i].UnitPrice)
		subtotals[i] = q.Items[i].Subtotal
	}
	q.Subtotal, q.Total = salesshared.RecomputeTotals(subtotals, q.Discount, q.ShippingFee)
}

// AddItem appends one unit of p at its current price.
func (q *Quotation) AddItem(p products.Product) {
	unit := p.Unit
	if unit == "" {
		unit = mdshared.DefaultUnit
	}
	id := p.ID
	item := Item{
		Name:      p.Name,
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: p.Price,
		Unit:      unit,
	}
	if id > 0 {
		item.ProductID = &id
	}
	q.Items = append(q.Items, item)
	q.Recompute()
}

// UpdateItem merges patch into line i.
func (q *Quotation) UpdateItem(i int, patch ItemPatch) error {
	if err := q.checkIndex(i); err != nil {
		return err
	}
	if patch.Quantity != nil && !patch.Quantity.IsPositive() {
		return shared.NewValidationError("quantity", "must be greater than 0")
	}
	if patch.UnitPrice != nil && patch.UnitPrice.IsNegative() {
		return shared.NewValidationError("unitPrice", "must be greater than or equal to 0")
	}
	item := q.Items[i]
	if patch.Name != nil {
		item.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.UnitPrice != nil {
		item.UnitPrice = *patch.UnitPrice
	}
	if patch.Unit != nil {
		item.Unit = *patch.Unit
	}
	q.Items[i] = item
	q.Recompute()
	return nil
}

// RemoveItem drops line i.
func (q *Quotation) RemoveItem(i int) error {
	if err := q.checkIndex(i); err != nil {
		return err
	}
	q.Items = append(q.Items[:i:i], q.Items[i+1:]...)
	q.Recompute()
	return nil
}

// SetDiscount replaces the discount.
func (q *Quotation) SetDiscount(discount decimal.Decimal) error {
	if discount.IsNegative() {
		return shared.NewValidationError("discount", "must be greater than or equal to 0")
	}
	q.Discount = discount
	q.Recompute()
	return nil
}

// SetShippingFee replaces the shipping fee and forgets any distance it was derived from.
func (q *Quotation) SetShippingFee(fee decimal.Decimal) error {
	if fee.IsNegative() {
		return shared.NewValidationError("shippingFee", "must be greater than or equal to 0")
	}
	q.ShippingFee = fee
	q.ShippingDistance = nil
	q.Recompute()
	return nil
}

// SetShippingDistance derives the shipping fee from a distance and a per-km rate.
// A zero distance is kept as no distance.
func (q *Quotation) SetShippingDistance(km, ratePerKm decimal.Decimal) error {
	if km.IsNegative() {
		return shared.NewValidationError("shippingDistance", "must be greater than or equal to 0")
	}
	if ratePerKm.IsNegative() {
		return shared.NewValidationError("shippingRatePerKm", "must be greater than or equal to 0")
	}
	q.ShippingDistance = &km
	if km.IsZero() {
		q.ShippingDistance = nil
	}
	q.ShippingFee = salesshared.ShippingFee(km, ratePerKm)
	q.Recompute()
	return nil
}

// SetStatus sets any status; no transition is refused here.
func (q *Quotation) SetStatus(s Status) {
	q.Status = s
}

func (q *Quotation) checkIndex(i int) error {
	if i < 0 || i >= len(q.Items) {
		return shared.NewValidationError("items", fmt.Sprintf("index %d out of range", i))
	}
	return nil
}

// Transitions is the conventional flow between statuses.
var Transitions = map[Status][]Status{
	StatusPending:     {StatusNegotiating, StatusApproved, StatusCancelled},
	StatusNegotiating: {StatusApproved, StatusCancelled},
	StatusApproved:    {StatusProduction, StatusCancelled},
	StatusProduction:  {StatusDelivered, StatusCancelled},
	StatusDelivered:   nil,
	StatusCancelled:   nil,
}

// CanTransition is an optional policy check for callers that want the
// conventional flow enforced. Save never consults it.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range Transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
