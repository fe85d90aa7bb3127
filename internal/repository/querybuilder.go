package repository

import (
	"fmt"
	"strings"
)

// predicate is a single parameterized filter condition. Values are
// always bound as query arguments, never interpolated into the SQL.
type predicate struct {
	column string
	op     string
	value  any
}

// queryBuilder assembles a parameterized SQL statement from a base
// projection plus an ordered list of optional predicates. Predicates
// are emitted in the order they were added, so the output is
// deterministic for a given filter.
type queryBuilder struct {
	base       string
	predicates []predicate
	orderBy    string
	limit      *int
	offset     *int
}

func newQueryBuilder(base string) *queryBuilder {
	return &queryBuilder{base: base}
}

// whereContains adds a case-insensitive substring match. Nil means no
// constraint.
func (qb *queryBuilder) whereContains(column string, value *string) *queryBuilder {
	if value != nil {
		qb.predicates = append(qb.predicates, predicate{column, "ILIKE", "%" + *value + "%"})
	}
	return qb
}

// whereEqual adds an exact match on a text column.
func (qb *queryBuilder) whereEqual(column string, value *string) *queryBuilder {
	if value != nil {
		qb.predicates = append(qb.predicates, predicate{column, "=", *value})
	}
	return qb
}

// whereEqualBool adds an exact match on a boolean column.
func (qb *queryBuilder) whereEqualBool(column string, value *bool) *queryBuilder {
	if value != nil {
		qb.predicates = append(qb.predicates, predicate{column, "=", *value})
	}
	return qb
}

// whereMin adds an inclusive lower bound.
func (qb *queryBuilder) whereMin(column string, value *float64) *queryBuilder {
	if value != nil {
		qb.predicates = append(qb.predicates, predicate{column, ">=", *value})
	}
	return qb
}

// whereMax adds an inclusive upper bound.
func (qb *queryBuilder) whereMax(column string, value *float64) *queryBuilder {
	if value != nil {
		qb.predicates = append(qb.predicates, predicate{column, "<=", *value})
	}
	return qb
}

// withOrderBy sets the ascending sort column. Every list query orders by
// a stable key so pagination is deterministic.
func (qb *queryBuilder) withOrderBy(column string) *queryBuilder {
	qb.orderBy = column
	return qb
}

func (qb *queryBuilder) withLimit(limit *int) *queryBuilder {
	qb.limit = limit
	return qb
}

func (qb *queryBuilder) withOffset(offset *int) *queryBuilder {
	qb.offset = offset
	return qb
}

// build returns the SQL statement and its bind arguments.
func (qb *queryBuilder) build() (string, []any) {
	var sb strings.Builder
	sb.WriteString(qb.base)
	sb.WriteString(" WHERE 1=1")

	args := make([]any, 0, len(qb.predicates)+2)
	for _, p := range qb.predicates {
		args = append(args, p.value)
		fmt.Fprintf(&sb, " AND %s %s $%d", p.column, p.op, len(args))
	}

	if qb.orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(qb.orderBy)
		sb.WriteString(" ASC")
	}

	if qb.limit != nil {
		args = append(args, *qb.limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	if qb.offset != nil {
		args = append(args, *qb.offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	return sb.String(), args
}
