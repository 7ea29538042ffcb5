package query

import (
	"strings"
)

// Operator is the comparison a Filter applies to its column.
type Operator int

const (
	// Equal compares the column with the bound value using =.
	Equal Operator = iota
	// Contains is a case-insensitive substring match.
	Contains
)

// Filter is one optional WHERE clause. Inactive filters are skipped by Build.
type Filter struct {
	Column string
	Op     Operator
	Value  any
	Active bool
}

// Eq returns an equality filter that is active whenever v is non-nil.
func Eq[T any](column string, v *T) Filter {
	if v == nil {
		return Filter{Column: column, Op: Equal}
	}
	return Filter{Column: column, Op: Equal, Value: *v, Active: true}
}

// EqString returns an equality filter that is active when v is non-nil and
// non-empty.
func EqString(column string, v *string) Filter {
	f := Filter{Column: column, Op: Equal}
	if v != nil && *v != "" {
		f.Value = *v
		f.Active = true
	}
	return f
}

// Like returns a substring filter that is active when v is non-nil and
// non-empty. The raw keyword is stored; Build escapes and wraps it.
func Like(column string, v *string) Filter {
	f := Filter{Column: column, Op: Contains}
	if v != nil && *v != "" {
		f.Value = *v
		f.Active = true
	}
	return f
}

// Plan is an assembled statement and its bound values in placeholder order.
type Plan struct {
	SQL  string
	Args []any

	dialect Dialect
}

// Builder assembles Plans for one dialect. A Builder is stateless and safe for
// concurrent use.
type Builder struct {
	dialect Dialect
}

// NewBuilder creates a Builder for d.
func NewBuilder(d Dialect) *Builder {
	return &Builder{dialect: d}
}

// Build appends "AND <clause>" for every active filter in declared order, then
// the ORDER BY clause and a final LIMIT bound to limit.
//
// The placeholder ordinal of each clause equals the position of its value in
// Plan.Args. limit is not range checked here.
func (b *Builder) Build(base string, filters []Filter, orderBy string, limit int) Plan {
	var sb strings.Builder
	sb.WriteString(base)

	args := make([]any, 0, len(filters)+1)
	for _, f := range filters {
		if !f.Active {
			continue
		}
		args = append(args, b.bindValue(f))
		sb.WriteString(" AND ")
		sb.WriteString(b.clause(f, len(args)))
	}

	if orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(orderBy)
	}

	args = append(args, limit)
	sb.WriteString(" LIMIT ")
	sb.WriteString(b.dialect.Placeholder(len(args)))

	return Plan{SQL: sb.String(), Args: args, dialect: b.dialect}
}

func (b *Builder) clause(f Filter, ordinal int) string {
	ph := b.dialect.Placeholder(ordinal)
	switch f.Op {
	case Contains:
		return f.Column + " " + b.dialect.ContainsOperator + " " + ph + " " + b.dialect.EscapeClause
	default:
		return f.Column + " = " + ph
	}
}

func (b *Builder) bindValue(f Filter) any {
	if f.Op != Contains {
		return f.Value
	}
	s, _ := f.Value.(string)
	return "%" + EscapeLike(s) + "%"
}

// EscapeLike neutralizes the pattern metacharacters of s so it matches
// literally inside a LIKE/ILIKE pattern declared with ESCAPE '\'.
func EscapeLike(s string) string {
	// Backslash first so the escapes added below are not doubled.
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
