// Package query assembles parameterized SELECT statements from a fixed base
// statement and an ordered list of optional filters.
//
// A Builder never executes anything: Build returns a Plan holding the
// statement text and the bound values in placeholder order. Values are never
// written into the statement text. Plan.Render produces an interpolated copy
// for logs only; it must not be sent to a driver.
//
// The base statement must end in an always-true predicate (WHERE 1=1) so every
// active filter is appended uniformly with AND. The limit is always the last
// bound value.
package query
