package orders

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/quotebook/quotebook/internal/sales/quotations"
	"github.com/quotebook/quotebook/internal/store"
)

// Repository persists orders.
type Repository interface {
	Add(ctx context.Context, o Order) (int64, error)
	Update(ctx context.Context, id int64, patch Patch) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	ListWhere(ctx context.Context, pred store.Predicate) ([]Order, error)
	Count(ctx context.Context) (int, error)
	CountWhere(ctx context.Context, pred store.Predicate) (int, error)
}

const columns = `id, quotation_id, customer_id, customer_name, items, total, delivery_date, status, observations, created_at, updated_at`

// PGRepository stores orders in PostgreSQL.
type PGRepository struct {
	db     store.DBTX
	schema store.Schema
}

// NewRepository constructs a repository; db may be a pool or a transaction.
func NewRepository(db store.DBTX, schema store.Schema) *PGRepository {
	return &PGRepository{db: db, schema: schema}
}

func (r *PGRepository) Add(ctx context.Context, o Order) (int64, error) {
	if o.Items == nil {
		o.Items = []quotations.Item{}
	}
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO orders (quotation_id, customer_id, customer_name, items, total, delivery_date, status, observations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		o.QuotationID, o.CustomerID, o.CustomerName, o.Items, o.Total, o.DeliveryDate, string(o.Status), o.Observations,
	).Scan(&id)
	if err != nil {
		return 0, store.Translate("add order", err)
	}
	return id, nil
}

func (r *PGRepository) Update(ctx context.Context, id int64, patch Patch) error {
	var set store.Assignments
	if patch.DeliveryDate != nil {
		set.Set("delivery_date", *patch.DeliveryDate)
	}
	if patch.Status != nil {
		set.Set("status", string(*patch.Status))
	}
	if patch.Observations != nil {
		set.Set("observations", *patch.Observations)
	}
	return store.UpdateByID(ctx, r.db, store.TableOrders, id, set, true)
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	return store.DeleteByID(ctx, r.db, store.TableOrders, id)
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+columns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, store.Translate("get order", err)
	}
	return o, nil
}

// List returns every order, most recently created first.
func (r *PGRepository) List(ctx context.Context) ([]Order, error) {
	return r.query(ctx)
}

func (r *PGRepository) ListWhere(ctx context.Context, pred store.Predicate) ([]Order, error) {
	return r.query(ctx, pred)
}

func (r *PGRepository) Count(ctx context.Context) (int, error) {
	return store.Count(ctx, r.db, r.schema, store.TableOrders)
}

func (r *PGRepository) CountWhere(ctx context.Context, pred store.Predicate) (int, error) {
	return store.Count(ctx, r.db, r.schema, store.TableOrders, pred)
}

func (r *PGRepository) query(ctx context.Context, preds ...store.Predicate) ([]Order, error) {
	query, args, err := store.Select(r.schema, store.TableOrders, columns, "id DESC", preds...)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, store.Translate("list orders", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, store.Translate("scan order", err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Translate("list orders", err)
	}
	return out, nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o      Order
		status string
	)
	if err := row.Scan(&o.ID, &o.QuotationID, &o.CustomerID, &o.CustomerName, &o.Items, &o.Total,
		&o.DeliveryDate, &status, &o.Observations, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = Status(status)
	return &o, nil
}
