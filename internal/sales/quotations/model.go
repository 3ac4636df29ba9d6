package quotations

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is a free-form tag; any value may follow any other.
type Status string

const (
	StatusPending     Status = "Pendente"
	StatusNegotiating Status = "Em negociação"
	StatusApproved    Status = "Aprovado"
	StatusProduction  Status = "Produção iniciada"
	StatusDelivered   Status = "Entregue"
	StatusCancelled   Status = "Cancelado"
)

// Statuses lists every status in display order.
var Statuses = []Status{
	StatusPending,
	StatusNegotiating,
	StatusApproved,
	StatusProduction,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Realized reports whether quotes in this status count as revenue.
func (s Status) Realized() bool {
	return s == StatusApproved || s == StatusProduction || s == StatusDelivered
}

// Item is a quote line. Name, unit and unit price are copied from the product
// when the line is added and never follow later product edits.
type Item struct {
	ProductID *int64          `json:"productId,omitempty"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Unit      string          `json:"unit"`
}

// Quotation is a proposal to a customer. CustomerName is a snapshot taken at save time.
type Quotation struct {
	ID               int64            `json:"id"`
	CustomerID       int64            `json:"customerId"`
	CustomerName     string           `json:"customerName"`
	Date             string           `json:"date"`
	Validity         string           `json:"validity"`
	DeliveryDate     *string          `json:"deliveryDate,omitempty"`
	Items            []Item           `json:"items"`
	Discount         decimal.Decimal  `json:"discount"`
	ShippingFee      decimal.Decimal  `json:"shippingFee"`
	ShippingDistance *decimal.Decimal `json:"shippingDistance,omitempty"`
	Subtotal         decimal.Decimal  `json:"subtotal"`
	Total            decimal.Decimal  `json:"total"`
	Observations     string           `json:"observations"`
	Status           Status           `json:"status"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// Patch lists the fields an update changes. An empty DeliveryDate clears the date and a
// zero ShippingDistance clears the distance; a ShippingFee without a ShippingDistance
// clears the distance too, since the fee no longer derives from it.
type Patch struct {
	CustomerID       *int64           `json:"customerId,omitempty"`
	CustomerName     *string          `json:"customerName,omitempty"`
	Date             *string          `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Validity         *string          `json:"validity,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DeliveryDate     *string          `json:"deliveryDate,omitempty"`
	Items            *[]Item          `json:"items,omitempty"`
	Discount         *decimal.Decimal `json:"discount,omitempty"`
	ShippingFee      *decimal.Decimal `json:"shippingFee,omitempty"`
	ShippingDistance *decimal.Decimal `json:"shippingDistance,omitempty"`
	Total            *decimal.Decimal `json:"-"`
	Observations     *string          `json:"observations,omitempty"`
	Status           *Status          `json:"status,omitempty"`
}

// Touches reports whether the patch changes an input of the total.
func (p Patch) Touches() bool {
	return p.Items != nil || p.Discount != nil || p.ShippingFee != nil
}

// Apply merges the patch into q without recomputing totals.
func (q *Quotation) Apply(p Patch) {
	if p.CustomerID != nil {
		q.CustomerID = *p.CustomerID
	}
	if p.CustomerName != nil {
		q.CustomerName = *p.CustomerName
	}
	if p.Date != nil {
		q.Date = *p.Date
	}
	if p.Validity != nil {
		q.Validity = *p.Validity
	}
	if p.DeliveryDate != nil {
		if *p.DeliveryDate == "" {
			q.DeliveryDate = nil
		} else {
			q.DeliveryDate = p.DeliveryDate
		}
	}
	if p.Items != nil {
		q.Items = append([]Item(nil), (*p.Items)...)
	}
	if p.Discount != nil {
		q.Discount = *p.Discount
	}
	if p.ShippingFee != nil {
		q.ShippingFee = *p.ShippingFee
	}
	if p.ClearsShippingDistance() {
		q.ShippingDistance = nil
	} else if p.ShippingDistance != nil {
		km := *p.ShippingDistance
		q.ShippingDistance = &km
	}
	if p.Total != nil {
		q.Total = *p.Total
	}
	if p.Observations != nil {
		q.Observations = *p.Observations
	}
	if p.Status != nil {
		q.Status = *p.Status
	}
}

// ClearsShippingDistance reports whether applying the patch leaves no distance behind.
func (p Patch) ClearsShippingDistance() bool {
	if p.ShippingDistance != nil {
		return p.ShippingDistance.IsZero()
	}
	return p.ShippingFee != nil
}

// FullPatch sets every stored field from q, including explicit clears for the
// optional delivery date and shipping distance.
func FullPatch(q Quotation) Patch {
	items := append([]Item(nil), q.Items...)
	deliveryDate := ""
	if q.DeliveryDate != nil {
		deliveryDate = *q.DeliveryDate
	}
	distance := decimal.Zero
	if q.ShippingDistance != nil {
		distance = *q.ShippingDistance
	}
	return Patch{
		CustomerID:       &q.CustomerID,
		CustomerName:     &q.CustomerName,
		Date:             &q.Date,
		Validity:         &q.Validity,
		DeliveryDate:     &deliveryDate,
		Items:            &items,
		Discount:         &q.Discount,
		ShippingFee:      &q.ShippingFee,
		ShippingDistance: &distance,
		Total:            &q.Total,
		Observations:     &q.Observations,
		Status:           &q.Status,
	}
}
