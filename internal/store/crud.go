package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/quotebook/quotebook/internal/shared"
)

// Assignments collects the columns a patch changes.
type Assignments struct {
	cols []string
	args []any
}

// Set records column = v.
func (a *Assignments) Set(col string, v any) {
	a.cols = append(a.cols, col)
	a.args = append(a.args, v)
}

// Empty reports whether nothing was set.
func (a *Assignments) Empty() bool {
	return len(a.cols) == 0
}

// UpdateByID merges the assignments into the row in one statement. A missing row
// yields shared.ErrNotFound, also when the patch is empty.
func UpdateByID(ctx context.Context, db DBTX, table string, id int64, set Assignments, touch bool) error {
	op := "update " + table
	if id <= 0 {
		return shared.NewValidationError("id", "is required")
	}
	if set.Empty() {
		var exists bool
		err := db.QueryRow(ctx, fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", table), id).Scan(&exists)
		if err != nil {
			return Translate(op, err)
		}
		if !exists {
			return fmt.Errorf("%s %d: %w", table, id, shared.ErrNotFound)
		}
		return nil
	}
	if touch {
		set.cols = append(set.cols, "updated_at")
		set.args = append(set.args, nowExpr{})
	}
	clause, args := set.SQL()
	args = append(args, id)
	tag, err := db.Exec(ctx, fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, clause, len(args)), args...)
	if err != nil {
		return Translate(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %d: %w", table, id, shared.ErrNotFound)
	}
	return nil
}

type nowExpr struct{}

// SQL renders the SET list with placeholders starting at $1.
func (a *Assignments) SQL() (string, []any) {
	parts := make([]string, 0, len(a.cols))
	args := make([]any, 0, len(a.args))
	for i, col := range a.cols {
		if _, ok := a.args[i].(nowExpr); ok {
			parts = append(parts, col+" = NOW()")
			continue
		}
		args = append(args, a.args[i])
		parts = append(parts, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	return strings.Join(parts, ", "), args
}

// DeleteByID removes the row. Deleting an absent id is not an error.
func DeleteByID(ctx context.Context, db DBTX, table string, id int64) error {
	if _, err := db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id); err != nil {
		return Translate("delete "+table, err)
	}
	return nil
}

// Count counts the rows of table matching preds.
func Count(ctx context.Context, db DBTX, schema Schema, table string, preds ...Predicate) (int, error) {
	for _, p := range preds {
		if err := p.Validate(schema, table); err != nil {
			return 0, err
		}
	}
	where, args := Where(preds...)
	var n int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM "+table+where, args...).Scan(&n); err != nil {
		return 0, Translate("count "+table, err)
	}
	return n, nil
}

// Select builds a validated SELECT for table ordered by orderBy.
func Select(schema Schema, table, columns, orderBy string, preds ...Predicate) (string, []any, error) {
	for _, p := range preds {
		if err := p.Validate(schema, table); err != nil {
			return "", nil, err
		}
	}
	where, args := Where(preds...)
	query := "SELECT " + columns + " FROM " + table + where
	if orderBy != "" {
		query += " ORDER BY " + orderBy
	}
	return query, args, nil
}
