package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotebook/quotebook/internal/shared"
)

func TestSchemaIndexedIncludesAllVersions(t *testing.T) {
	cols := Default.Indexed(TableQuotations)
	assert.Equal(t, []string{"customer_id", "delivery_date", "id", "quote_date", "status"}, cols)
	assert.True(t, Default.IsIndexed(TableCalendarNotes, "note_date"))
	assert.False(t, Default.IsIndexed(TableCustomers, "phone"))
	assert.Equal(t, 3, Default.Latest())
}

func TestIndexDDLIsIdempotent(t *testing.T) {
	idx := Index{Table: TableCalendarNotes, Columns: []string{"note_date"}, Unique: true}
	assert.Equal(t, "CREATE UNIQUE INDEX IF NOT EXISTS ux_calendar_notes_note_date ON calendar_notes (note_date)", idx.DDL())

	plain := Index{Table: TableOrders, Columns: []string{"status"}}
	assert.Equal(t, "idx_orders_status", plain.Name())
}

func TestVersionStatementsAreAdditive(t *testing.T) {
	for _, v := range Default.Versions {
		for _, stmt := range v.Statements {
			assert.Contains(t, stmt, "IF NOT EXISTS", "version %d statement must be idempotent", v.Number)
			assert.NotContains(t, stmt, "DROP", "version %d must not destroy rows", v.Number)
		}
	}
}

func TestPredicateSQL(t *testing.T) {
	clause, args := Between("quote_date", "2025-01-01", "2025-01-31").SQL(1)
	assert.Equal(t, "quote_date BETWEEN $1 AND $2", clause)
	assert.Equal(t, []any{"2025-01-01", "2025-01-31"}, args)

	clause, args = AnyOf("status", "Aprovado", "Entregue").SQL(3)
	assert.Equal(t, "status IN ($3, $4)", clause)
	assert.Len(t, args, 2)

	clause, args = AnyOf("status").SQL(1)
	assert.Equal(t, "FALSE", clause)
	assert.Empty(t, args)

	where, args := Where(Equals("customer_id", int64(4)), Between("quote_date", "a", "b"))
	assert.Equal(t, " WHERE customer_id = $1 AND quote_date BETWEEN $2 AND $3", where)
	assert.Len(t, args, 3)
}

func TestPredicateValidate(t *testing.T) {
	err := Equals("phone", "11").Validate(Default, TableCustomers)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))

	require.NoError(t, Equals("name", "Ana").Validate(Default, TableCustomers))
	require.NoError(t, Equals("id", int64(1)).Validate(Default, TableCustomers))

	err = Predicate{Field: "status", Op: OpBetween, Values: []any{"a"}}.Validate(Default, TableOrders)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestPredicateMatchInclusiveRange(t *testing.T) {
	p := Between("quote_date", "2025-01-01", "2025-01-31")
	assert.True(t, p.Match("2025-01-01"))
	assert.True(t, p.Match("2025-01-31"))
	assert.False(t, p.Match("2025-02-01"))
	assert.False(t, p.Match(int64(3)))

	assert.True(t, Equals("active", true).Match(true))
	assert.False(t, Equals("active", true).Match(false))
	assert.True(t, AnyOf("customer_id", int64(1), int64(2)).Match(int64(2)))
	assert.True(t, Between("id", int64(1), int64(5)).Match(int64(5)))
}

func TestTranslate(t *testing.T) {
	assert.Nil(t, Translate("noop", nil))

	err := Translate("get customer", pgx.ErrNoRows)
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	err = Translate("insert note", &pgconn.PgError{Code: "23505", ConstraintName: "ux_calendar_notes_note_date"})
	assert.True(t, errors.Is(err, shared.ErrConflict))

	cause := fmt.Errorf("disk full")
	err = Translate("insert order", cause)
	assert.True(t, errors.Is(err, shared.ErrIO))
	assert.True(t, errors.Is(err, cause))
	var ioErr *shared.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "insert order", ioErr.Op)

	validation := shared.NewValidationError("name", "is required")
	assert.Same(t, validation, Translate("add", validation))
}

func TestAssignmentsSQL(t *testing.T) {
	var set Assignments
	assert.True(t, set.Empty())
	set.Set("name", "Ana")
	set.Set("phone", "11999990000")
	set.Set("updated_at", nowExpr{})

	clause, args := set.SQL()
	assert.Equal(t, "name = $1, phone = $2, updated_at = NOW()", clause)
	assert.Equal(t, []any{"Ana", "11999990000"}, args)
}

func TestSelectRejectsUnindexedField(t *testing.T) {
	_, _, err := Select(Default, TableProducts, "id", "id", Equals("unit", "kg"))
	assert.True(t, errors.Is(err, shared.ErrValidation))

	query, args, err := Select(Default, TableProducts, "id, name", "name", Equals("active", true))
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name FROM products WHERE active = $1 ORDER BY name", query)
	assert.Equal(t, []any{true}, args)
}
