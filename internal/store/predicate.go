package store

import (
	"fmt"
	"strings"

	"github.com/quotebook/quotebook/internal/shared"
)

// Op is the comparison a Predicate performs.
type Op int

const (
	OpEquals Op = iota
	OpBetween
	OpAnyOf
)

func (o Op) String() string {
	switch o {
	case OpEquals:
		return "equals"
	case OpBetween:
		return "between"
	case OpAnyOf:
		return "anyOf"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Predicate filters rows on one indexed column.
type Predicate struct {
	Field  string
	Op     Op
	Values []any
}

// Equals matches rows whose field equals v.
func Equals(field string, v any) Predicate {
	return Predicate{Field: field, Op: OpEquals, Values: []any{v}}
}

// Between matches rows whose field lies in [lo, hi], inclusive on both ends.
func Between(field string, lo, hi any) Predicate {
	return Predicate{Field: field, Op: OpBetween, Values: []any{lo, hi}}
}

// AnyOf matches rows whose field equals one of vs.
func AnyOf(field string, vs ...any) Predicate {
	return Predicate{Field: field, Op: OpAnyOf, Values: vs}
}

// Validate rejects predicates on columns that are not indexed on table.
func (p Predicate) Validate(schema Schema, table string) error {
	if !schema.IsIndexed(table, p.Field) {
		return shared.NewValidationError(p.Field, fmt.Sprintf("not an indexed field of %s", table))
	}
	switch p.Op {
	case OpEquals:
		if len(p.Values) != 1 {
			return shared.NewValidationError(p.Field, "equals takes exactly one value")
		}
	case OpBetween:
		if len(p.Values) != 2 {
			return shared.NewValidationError(p.Field, "between takes a lower and an upper bound")
		}
	case OpAnyOf:
	default:
		return shared.NewValidationError(p.Field, "unknown predicate "+p.Op.String())
	}
	return nil
}

// SQL renders the predicate as a WHERE fragment with placeholders starting at $argStart.
func (p Predicate) SQL(argStart int) (string, []any) {
	switch p.Op {
	case OpBetween:
		return fmt.Sprintf("%s BETWEEN $%d AND $%d", p.Field, argStart, argStart+1), []any{p.Values[0], p.Values[1]}
	case OpAnyOf:
		if len(p.Values) == 0 {
			return "FALSE", nil
		}
		placeholders := make([]string, len(p.Values))
		for i := range p.Values {
			placeholders[i] = fmt.Sprintf("$%d", argStart+i)
		}
		return fmt.Sprintf("%s IN (%s)", p.Field, strings.Join(placeholders, ", ")), p.Values
	default:
		return fmt.Sprintf("%s = $%d", p.Field, argStart), []any{p.Values[0]}
	}
}

// Match evaluates the predicate against an in-memory field value. Strings, integers
// and booleans are supported.
func (p Predicate) Match(value any) bool {
	switch p.Op {
	case OpEquals:
		return len(p.Values) == 1 && compare(value, p.Values[0]) == 0
	case OpBetween:
		if len(p.Values) != 2 {
			return false
		}
		lo, hi := compare(value, p.Values[0]), compare(value, p.Values[1])
		return lo != cmpInvalid && hi != cmpInvalid && lo >= 0 && hi <= 0
	case OpAnyOf:
		for _, v := range p.Values {
			if compare(value, v) == 0 {
				return true
			}
		}
	}
	return false
}

const cmpInvalid = 2

func compare(a, b any) int {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return cmpInvalid
		}
		return strings.Compare(av, bv)
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return cmpInvalid
		}
		if av == bv {
			return 0
		}
		return cmpInvalid
	default:
		ai, okA := asInt64(a)
		bi, okB := asInt64(b)
		if !okA || !okB {
			return cmpInvalid
		}
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case *int64:
		if n == nil {
			return 0, false
		}
		return *n, true
	default:
		return 0, false
	}
}

// Where joins predicates into a WHERE clause.
func Where(preds ...Predicate) (string, []any) {
	if len(preds) == 0 {
		return "", nil
	}
	var (
		clauses []string
		args    []any
	)
	for _, p := range preds {
		clause, pArgs := p.SQL(len(args) + 1)
		clauses = append(clauses, clause)
		args = append(args, pArgs...)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
