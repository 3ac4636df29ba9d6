package quotations

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/quotebook/quotebook/internal/store"
)

// Repository persists quotations.
type Repository interface {
	Add(ctx context.Context, q Quotation) (int64, error)
	Update(ctx context.Context, id int64, patch Patch) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*Quotation, error)
	List(ctx context.Context) ([]Quotation, error)
	ListWhere(ctx context.Context, pred store.Predicate) ([]Quotation, error)
	Count(ctx context.Context) (int, error)
	CountWhere(ctx context.Context, pred store.Predicate) (int, error)
}

const columns = `id, customer_id, customer_name, quote_date, validity, delivery_date, items, discount,
	shipping_fee, shipping_distance, total, observations, status, created_at, updated_at`

// PGRepository stores quotations in PostgreSQL. Items live in a JSONB column.
type PGRepository struct {
	db     store.DBTX
	schema store.Schema
}

// NewRepository constructs a repository; db may be a pool or a transaction.
func NewRepository(db store.DBTX, schema store.Schema) *PGRepository {
	return &PGRepository{db: db, schema: schema}
}

func (r *PGRepository) Add(ctx context.Context, q Quotation) (int64, error) {
	if q.Items == nil {
		q.Items = []Item{}
	}
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO quotations (customer_id, customer_name, quote_date, validity, delivery_date,
			items, discount, shipping_fee, shipping_distance, total, observations, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`,
		q.CustomerID, q.CustomerName, q.Date, q.Validity, nullString(q.DeliveryDate), q.Items, q.Discount,
		q.ShippingFee, nullDecimal(q.ShippingDistance), q.Total, q.Observations, string(q.Status),
	).Scan(&id)
	if err != nil {
		return 0, store.Translate("add quotation", err)
	}
	return id, nil
}

func (r *PGRepository) Update(ctx context.Context, id int64, patch Patch) error {
	var set store.Assignments
	if patch.CustomerID != nil {
		set.Set("customer_id", *patch.CustomerID)
	}
	if patch.CustomerName != nil {
		set.Set("customer_name", *patch.CustomerName)
	}
	if patch.Date != nil {
		set.Set("quote_date", *patch.Date)
	}
	if patch.Validity != nil {
		set.Set("validity", *patch.Validity)
	}
	if patch.DeliveryDate != nil {
		set.Set("delivery_date", nullString(patch.DeliveryDate))
	}
	if patch.Items != nil {
		items := *patch.Items
		if items == nil {
			items = []Item{}
		}
		set.Set("items", items)
	}
	if patch.Discount != nil {
		set.Set("discount", *patch.Discount)
	}
	if patch.ShippingFee != nil {
		set.Set("shipping_fee", *patch.ShippingFee)
	}
	if patch.ClearsShippingDistance() {
		set.Set("shipping_distance", nullDecimal(nil))
	} else if patch.ShippingDistance != nil {
		set.Set("shipping_distance", *patch.ShippingDistance)
	}
	if patch.Total != nil {
		set.Set("total", *patch.Total)
	}
	if patch.Observations != nil {
		set.Set("observations", *patch.Observations)
	}
	if patch.Status != nil {
		set.Set("status", string(*patch.Status))
	}
	return store.UpdateByID(ctx, r.db, store.TableQuotations, id, set, true)
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	return store.DeleteByID(ctx, r.db, store.TableQuotations, id)
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*Quotation, error) {
	q, err := scanQuotation(r.db.QueryRow(ctx, `SELECT `+columns+` FROM quotations WHERE id = $1`, id))
	if err != nil {
		return nil, store.Translate("get quotation", err)
	}
	return q, nil
}

// List returns every quotation, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Quotation, error) {
	return r.query(ctx)
}

func (r *PGRepository) ListWhere(ctx context.Context, pred store.Predicate) ([]Quotation, error) {
	return r.query(ctx, pred)
}

func (r *PGRepository) Count(ctx context.Context) (int, error) {
	return store.Count(ctx, r.db, r.schema, store.TableQuotations)
}

func (r *PGRepository) CountWhere(ctx context.Context, pred store.Predicate) (int, error) {
	return store.Count(ctx, r.db, r.schema, store.TableQuotations, pred)
}

func (r *PGRepository) query(ctx context.Context, preds ...store.Predicate) ([]Quotation, error) {
	query, args, err := store.Select(r.schema, store.TableQuotations, columns, "quote_date DESC, id DESC", preds...)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, store.Translate("list quotations", err)
	}
	defer rows.Close()

	var out []Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, store.Translate("scan quotation", err)
		}
		out = append(out, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Translate("list quotations", err)
	}
	return out, nil
}

func scanQuotation(row pgx.Row) (*Quotation, error) {
	var (
		q        Quotation
		status   string
		distance decimal.NullDecimal
	)
	if err := row.Scan(&q.ID, &q.CustomerID, &q.CustomerName, &q.Date, &q.Validity, &q.DeliveryDate, &q.Items,
		&q.Discount, &q.ShippingFee, &distance, &q.Total, &q.Observations, &status, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	q.Status = Status(status)
	if distance.Valid {
		q.ShippingDistance = &distance.Decimal
	}
	subtotal := decimal.Zero
	for _, item := range q.Items {
		subtotal = subtotal.Add(item.Subtotal)
	}
	q.Subtotal = subtotal
	return &q, nil
}

func nullString(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil || d.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
