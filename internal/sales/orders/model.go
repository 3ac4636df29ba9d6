package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quotebook/quotebook/internal/sales/quotations"
)

// Status tracks production of an order.
type Status string

const (
	StatusPending   Status = "Pendente"
	StatusProducing Status = "Produzindo"
	StatusReady     Status = "Pronto"
	StatusDelivered Status = "Entregue"
	StatusCancelled Status = "Cancelado"
)

// Statuses lists every order status.
var Statuses = []Status{StatusPending, StatusProducing, StatusReady, StatusDelivered, StatusCancelled}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Next returns the status the production board moves an order to, if any.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusPending:
		return StatusProducing, true
	case StatusProducing:
		return StatusReady, true
	case StatusReady:
		return StatusDelivered, true
	default:
		return "", false
	}
}

// Order is a frozen copy of a quotation at conversion time.
type Order struct {
	ID           int64             `json:"id"`
	QuotationID  *int64            `json:"quoteId,omitempty"`
	CustomerID   int64             `json:"customerId"`
	CustomerName string            `json:"customerName"`
	Items        []quotations.Item `json:"items"`
	Total        decimal.Decimal   `json:"total"`
	DeliveryDate string            `json:"deliveryDate"`
	Status       Status            `json:"status"`
	Observations *string           `json:"observations,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// Patch lists the fields an update changes. Items and total are frozen.
type Patch struct {
	DeliveryDate *string `json:"deliveryDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status       *Status `json:"status,omitempty"`
	Observations *string `json:"observations,omitempty"`
}
