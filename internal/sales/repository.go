package sales

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/quotebook/quotebook/internal/sales/orders"
	"github.com/quotebook/quotebook/internal/sales/quotations"
	"github.com/quotebook/quotebook/internal/store"
)

// TxRepository exposes the reads and writes conversion performs inside one transaction.
type TxRepository interface {
	GetQuotation(ctx context.Context, id int64) (*quotations.Quotation, error)
	UpdateQuotationStatus(ctx context.Context, id int64, status quotations.Status) error
	CreateOrder(ctx context.Context, order orders.Order) (int64, error)
	GetOrder(ctx context.Context, id int64) (*orders.Order, error)
}

// UnitOfWork runs fn atomically: any error returned by fn discards every write it made.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// Repository binds the quotation and order repositories to a store transaction.
type Repository struct {
	store *store.Store
}

// NewRepository constructs a repository.
func NewRepository(s *store.Store) *Repository {
	return &Repository{store: s}
}

type txRepo struct {
	quotations *quotations.PGRepository
	orders     *orders.PGRepository
}

// WithTx wraps callback in repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return r.store.WithTx(ctx, func(tx pgx.Tx) error {
		wrapper := &txRepo{
			quotations: quotations.NewRepository(tx, r.store.Schema()),
			orders:     orders.NewRepository(tx, r.store.Schema()),
		}
		return fn(ctx, wrapper)
	})
}

func (t *txRepo) GetQuotation(ctx context.Context, id int64) (*quotations.Quotation, error) {
	return t.quotations.Get(ctx, id)
}

func (t *txRepo) UpdateQuotationStatus(ctx context.Context, id int64, status quotations.Status) error {
	return t.quotations.Update(ctx, id, quotations.Patch{Status: &status})
}

func (t *txRepo) CreateOrder(ctx context.Context, order orders.Order) (int64, error) {
	return t.orders.Add(ctx, order)
}

func (t *txRepo) GetOrder(ctx context.Context, id int64) (*orders.Order, error) {
	return t.orders.Get(ctx, id)
}
