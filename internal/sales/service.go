// Package sales coordinates writes that span quotations and orders.
package sales

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quotebook/quotebook/internal/sales/orders"
	"github.com/quotebook/quotebook/internal/sales/quotations"
	"github.com/quotebook/quotebook/internal/shared"
)

// ConversionObserver is notified after every conversion attempt.
type ConversionObserver interface {
	ObserveConversion(err error)
}

// Converter turns quotations into orders.
type Converter struct {
	repo     UnitOfWork
	logger   *slog.Logger
	observer ConversionObserver
}

// NewConverter constructs a Converter.
func NewConverter(repo UnitOfWork, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{repo: repo, logger: logger}
}

// WithObserver attaches an observer such as the metrics registry.
func (c *Converter) WithObserver(o ConversionObserver) *Converter {
	c.observer = o
	return c
}

// ConvertToOrder creates a Pendente order holding a frozen copy of the quotation's
// items, total and customer, then marks the quotation approved. Both writes commit
// together or not at all.
func (c *Converter) ConvertToOrder(ctx context.Context, quotationID int64, deliveryDate string) (*orders.Order, error) {
	deliveryDate = strings.TrimSpace(deliveryDate)
	if !shared.ValidDate(deliveryDate) {
		return nil, shared.NewValidationError("deliveryDate", "must be a date in YYYY-MM-DD form")
	}

	var created *orders.Order
	err := c.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		quote, err := tx.GetQuotation(ctx, quotationID)
		if err != nil {
			return fmt.Errorf("get quotation: %w", err)
		}

		order := orders.Order{
			QuotationID:  &quote.ID,
			CustomerID:   quote.CustomerID,
			CustomerName: quote.CustomerName,
			Items:        append([]quotations.Item(nil), quote.Items...),
			Total:        quote.Total,
			DeliveryDate: deliveryDate,
			Status:       orders.StatusPending,
		}
		if obs := strings.TrimSpace(quote.Observations); obs != "" {
			order.Observations = &obs
		}

		orderID, err := tx.CreateOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		if err := tx.UpdateQuotationStatus(ctx, quotationID, quotations.StatusApproved); err != nil {
			return fmt.Errorf("update quotation status: %w", err)
		}

		created, err = tx.GetOrder(ctx, orderID)
		return err
	})
	if c.observer != nil {
		c.observer.ObserveConversion(err)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Info("quotation converted",
		slog.Int64("quotation_id", quotationID),
		slog.Int64("order_id", created.ID),
		slog.String("delivery_date", deliveryDate),
	)
	return created, nil
}
