package categories

import (
	"context"

	"github.com/quotebook/quotebook/internal/store"
)

type Repository interface {
	Add(ctx context.Context, c Category) (int64, error)
	Update(ctx context.Context, id int64, patch Patch) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	ListWhere(ctx context.Context, pred store.Predicate) ([]Category, error)
	Count(ctx context.Context) (int, error)
	CountWhere(ctx context.Context, pred store.Predicate) (int, error)
}

type repository struct {
	db     store.DBTX
	schema store.Schema
}

func NewRepository(db store.DBTX, schema store.Schema) Repository {
	return &repository{db: db, schema: schema}
}

func (r *repository) Add(ctx context.Context, c Category) (int64, error) {
	var id int64
	if err := r.db.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, c.Name).Scan(&id); err != nil {
		return 0, store.Translate("add category", err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, patch Patch) error {
	var set store.Assignments
	if patch.Name != nil {
		set.Set("name", *patch.Name)
	}
	return store.UpdateByID(ctx, r.db, store.TableCategories, id, set, false)
}

// Delete does not touch products; their category_id is left dangling.
func (r *repository) Delete(ctx context.Context, id int64) error {
	return store.DeleteByID(ctx, r.db, store.TableCategories, id)
}

func (r *repository) Get(ctx context.Context, id int64) (*Category, error) {
	var c Category
	if err := r.db.QueryRow(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name); err != nil {
		return nil, store.Translate("get category", err)
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	return r.query(ctx)
}

func (r *repository) ListWhere(ctx context.Context, pred store.Predicate) ([]Category, error) {
	return r.query(ctx, pred)
}

func (r *repository) Count(ctx context.Context) (int, error) {
	return store.Count(ctx, r.db, r.schema, store.TableCategories)
}

func (r *repository) CountWhere(ctx context.Context, pred store.Predicate) (int, error) {
	return store.Count(ctx, r.db, r.schema, store.TableCategories, pred)
}

func (r *repository) query(ctx context.Context, preds ...store.Predicate) ([]Category, error) {
	query, args, err := store.Select(r.schema, store.TableCategories, "id, name", "name, id", preds...)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, store.Translate("list categories", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, store.Translate("scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Translate("list categories", err)
	}
	return categories, nil
}
