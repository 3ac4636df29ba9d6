package calendar

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/quotebook/quotebook/internal/store"
)

// Repository persists calendar notes.
type Repository interface {
	Add(ctx context.Context, n Note) (int64, error)
	Update(ctx context.Context, id int64, patch Patch) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*Note, error)
	List(ctx context.Context) ([]Note, error)
	ListWhere(ctx context.Context, pred store.Predicate) ([]Note, error)
	Count(ctx context.Context) (int, error)
	CountWhere(ctx context.Context, pred store.Predicate) (int, error)

	Upsert(ctx context.Context, date, text string) (int64, error)
	DeleteByDate(ctx context.Context, date string) error
}

const columns = `id, note_date, text, updated_at`

// PGRepository is the PostgreSQL implementation of Repository.
type PGRepository struct {
	db     store.DBTX
	schema store.Schema
}

// NewRepository constructs a repository over db.
func NewRepository(db store.DBTX, schema store.Schema) *PGRepository {
	return &PGRepository{db: db, schema: schema}
}

// Add inserts n. A second note for the same date fails with shared.ErrConflict.
func (r *PGRepository) Add(ctx context.Context, n Note) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO calendar_notes (note_date, text) VALUES ($1, $2) RETURNING id`,
		n.Date, n.Text).Scan(&id)
	if err != nil {
		return 0, store.Translate("add calendar note", err)
	}
	return id, nil
}

// Update merges patch into note id.
func (r *PGRepository) Update(ctx context.Context, id int64, patch Patch) error {
	var set store.Assignments
	if patch.Date != nil {
		set.Set("note_date", *patch.Date)
	}
	if patch.Text != nil {
		set.Set("text", *patch.Text)
	}
	return store.UpdateByID(ctx, r.db, store.TableCalendarNotes, id, set, true)
}

// Delete removes note id; absent ids are ignored.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	return store.DeleteByID(ctx, r.db, store.TableCalendarNotes, id)
}

// Get loads note id.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Note, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM calendar_notes WHERE id = $1", columns), id)
	n, err := scanNote(row)
	if err != nil {
		return nil, store.Translate("get calendar note", err)
	}
	return n, nil
}

// List returns every note ordered by date.
func (r *PGRepository) List(ctx context.Context) ([]Note, error) {
	return r.query(ctx)
}

// ListWhere returns the notes matching pred.
func (r *PGRepository) ListWhere(ctx context.Context, pred store.Predicate) ([]Note, error) {
	return r.query(ctx, pred)
}

// Count returns the number of notes.
func (r *PGRepository) Count(ctx context.Context) (int, error) {
	return store.Count(ctx, r.db, r.schema, store.TableCalendarNotes)
}

// CountWhere returns the number of notes matching pred.
func (r *PGRepository) CountWhere(ctx context.Context, pred store.Predicate) (int, error) {
	return store.Count(ctx, r.db, r.schema, store.TableCalendarNotes, pred)
}

// Upsert writes text for date in one statement; the unique index on note_date keeps
// a single row per date.
func (r *PGRepository) Upsert(ctx context.Context, date, text string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO calendar_notes (note_date, text) VALUES ($1, $2)
		ON CONFLICT (note_date) DO UPDATE SET text = EXCLUDED.text, updated_at = NOW()
		RETURNING id`, date, text).Scan(&id)
	if err != nil {
		return 0, store.Translate("upsert calendar note", err)
	}
	return id, nil
}

// DeleteByDate removes the note for date, if any.
func (r *PGRepository) DeleteByDate(ctx context.Context, date string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM calendar_notes WHERE note_date = $1`, date); err != nil {
		return store.Translate("delete calendar note", err)
	}
	return nil
}

func (r *PGRepository) query(ctx context.Context, preds ...store.Predicate) ([]Note, error) {
	query, args, err := store.Select(r.schema, store.TableCalendarNotes, columns, "note_date", preds...)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, store.Translate("list calendar notes", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, store.Translate("scan calendar note", err)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Translate("list calendar notes", err)
	}
	return notes, nil
}

func scanNote(row pgx.Row) (*Note, error) {
	var n Note
	if err := row.Scan(&n.ID, &n.Date, &n.Text, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}
