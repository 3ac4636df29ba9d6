package products

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/quotebook/quotebook/internal/store"
)

type Repository interface {
	Add(ctx context.Context, p Product) (int64, error)
	Update(ctx context.Context, id int64, patch Patch) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	ListWhere(ctx context.Context, pred store.Predicate) ([]Product, error)
	Count(ctx context.Context) (int, error)
	CountWhere(ctx context.Context, pred store.Predicate) (int, error)
}

const columns = `id, name, description, price, cost_price, unit, photo_base64, category_id, active, created_at, updated_at`

type repository struct {
	db     store.DBTX
	schema store.Schema
}

func NewRepository(db store.DBTX, schema store.Schema) Repository {
	return &repository{db: db, schema: schema}
}

func (r *repository) Add(ctx context.Context, p Product) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO products (name, description, price, cost_price, unit, photo_base64, category_id, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		p.Name, p.Description, p.Price, nullDecimal(p.CostPrice), p.Unit, p.PhotoBase64, p.CategoryID, p.Active,
	).Scan(&id)
	if err != nil {
		return 0, store.Translate("add product", err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, patch Patch) error {
	var set store.Assignments
	if patch.Name != nil {
		set.Set("name", *patch.Name)
	}
	if patch.Description != nil {
		set.Set("description", *patch.Description)
	}
	if patch.Price != nil {
		set.Set("price", *patch.Price)
	}
	if patch.CostPrice != nil {
		set.Set("cost_price", *patch.CostPrice)
	}
	if patch.Unit != nil {
		set.Set("unit", *patch.Unit)
	}
	if patch.PhotoBase64 != nil {
		set.Set("photo_base64", *patch.PhotoBase64)
	}
	if patch.CategoryID != nil {
		set.Set("category_id", *patch.CategoryID)
	}
	if patch.Active != nil {
		set.Set("active", *patch.Active)
	}
	return store.UpdateByID(ctx, r.db, store.TableProducts, id, set, true)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return store.DeleteByID(ctx, r.db, store.TableProducts, id)
}

func (r *repository) Get(ctx context.Context, id int64) (*Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+columns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, store.Translate("get product", err)
	}
	return p, nil
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	return r.query(ctx)
}

func (r *repository) ListWhere(ctx context.Context, pred store.Predicate) ([]Product, error) {
	return r.query(ctx, pred)
}

func (r *repository) Count(ctx context.Context) (int, error) {
	return store.Count(ctx, r.db, r.schema, store.TableProducts)
}

func (r *repository) CountWhere(ctx context.Context, pred store.Predicate) (int, error) {
	return store.Count(ctx, r.db, r.schema, store.TableProducts, pred)
}

func (r *repository) query(ctx context.Context, preds ...store.Predicate) ([]Product, error) {
	query, args, err := store.Select(r.schema, store.TableProducts, columns, "name, id", preds...)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, store.Translate("list products", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, store.Translate("scan product", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Translate("list products", err)
	}
	return products, nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var (
		p    Product
		cost decimal.NullDecimal
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &cost, &p.Unit, &p.PhotoBase64,
		&p.CategoryID, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if cost.Valid {
		p.CostPrice = &cost.Decimal
	}
	return &p, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
