package customers

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/quotebook/quotebook/internal/store"
)

// Repository persists customers.
type Repository interface {
	Add(ctx context.Context, c Customer) (int64, error)
	Update(ctx context.Context, id int64, patch Patch) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	ListWhere(ctx context.Context, pred store.Predicate) ([]Customer, error)
	Count(ctx context.Context) (int, error)
	CountWhere(ctx context.Context, pred store.Predicate) (int, error)
}

const columns = `id, name, phone, email, birthday, anniversary_date, observations, address, created_at, updated_at`

// PGRepository is the PostgreSQL implementation of Repository.
type PGRepository struct {
	db     store.DBTX
	schema store.Schema
}

// NewRepository constructs a repository over db.
func NewRepository(db store.DBTX, schema store.Schema) *PGRepository {
	return &PGRepository{db: db, schema: schema}
}

// Add inserts c and returns its id.
func (r *PGRepository) Add(ctx context.Context, c Customer) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO customers (name, phone, email, birthday, anniversary_date, observations, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		c.Name, c.Phone, c.Email, c.Birthday, c.AnniversaryDate, c.Observations, c.Address,
	).Scan(&id)
	if err != nil {
		return 0, store.Translate("add customer", err)
	}
	return id, nil
}

// Update merges patch into the stored customer.
func (r *PGRepository) Update(ctx context.Context, id int64, patch Patch) error {
	var set store.Assignments
	if patch.Name != nil {
		set.Set("name", *patch.Name)
	}
	if patch.Phone != nil {
		set.Set("phone", *patch.Phone)
	}
	if patch.Email != nil {
		set.Set("email", *patch.Email)
	}
	if patch.Birthday != nil {
		set.Set("birthday", *patch.Birthday)
	}
	if patch.AnniversaryDate != nil {
		set.Set("anniversary_date", *patch.AnniversaryDate)
	}
	if patch.Observations != nil {
		set.Set("observations", *patch.Observations)
	}
	if patch.Address != nil {
		set.Set("address", patch.Address)
	}
	return store.UpdateByID(ctx, r.db, store.TableCustomers, id, set, true)
}

// Delete removes the customer; absent ids are ignored.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	return store.DeleteByID(ctx, r.db, store.TableCustomers, id)
}

// Get loads one customer.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Customer, error) {
	row := r.db.QueryRow(ctx, `SELECT `+columns+` FROM customers WHERE id = $1`, id)
	c, err := scanCustomer(row)
	if err != nil {
		return nil, store.Translate("get customer", err)
	}
	return c, nil
}

// List returns every customer ordered by name.
func (r *PGRepository) List(ctx context.Context) ([]Customer, error) {
	return r.query(ctx)
}

// ListWhere returns customers matching an indexed predicate.
func (r *PGRepository) ListWhere(ctx context.Context, pred store.Predicate) ([]Customer, error) {
	return r.query(ctx, pred)
}

// Count returns the number of customers.
func (r *PGRepository) Count(ctx context.Context) (int, error) {
	return store.Count(ctx, r.db, r.schema, store.TableCustomers)
}

// CountWhere counts customers matching an indexed predicate.
func (r *PGRepository) CountWhere(ctx context.Context, pred store.Predicate) (int, error) {
	return store.Count(ctx, r.db, r.schema, store.TableCustomers, pred)
}

func (r *PGRepository) query(ctx context.Context, preds ...store.Predicate) ([]Customer, error) {
	query, args, err := store.Select(r.schema, store.TableCustomers, columns, "name, id", preds...)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, store.Translate("list customers", err)
	}
	defer rows.Close()
	var out []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, store.Translate("scan customer", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Translate("list customers", err)
	}
	return out, nil
}

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Birthday, &c.AnniversaryDate,
		&c.Observations, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
