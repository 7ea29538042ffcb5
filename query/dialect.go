package query

import (
	"fmt"
	"regexp"
	"strings"
)

// Dialect captures the statement differences between supported databases.
type Dialect struct {
	Name string

	// Placeholder renders the marker for the bound value at ordinal (1-based).
	Placeholder func(ordinal int) string

	// ContainsOperator is the case-insensitive pattern match operator.
	ContainsOperator string

	// EscapeClause declares backslash as the pattern escape character.
	EscapeClause string

	numbered bool
}

var dollarPlaceholder = regexp.MustCompile(`\$[0-9]+`)

var (
	// Postgres uses $1..$n and ILIKE.
	Postgres = Dialect{
		Name:             "postgres",
		Placeholder:      func(ordinal int) string { return fmt.Sprintf("$%d", ordinal) },
		ContainsOperator: "ILIKE",
		EscapeClause:     `ESCAPE '\'`,
		numbered:         true,
	}

	// SQLite uses ? and LIKE, which is case-insensitive for ASCII.
	SQLite = Dialect{
		Name:             "sqlite",
		Placeholder:      func(int) string { return "?" },
		ContainsOperator: "LIKE",
		EscapeClause:     `ESCAPE '\'`,
	}

	// MySQL uses ? and LIKE. Backslash is itself an escape inside MySQL
	// string literals, hence the doubled escape character.
	MySQL = Dialect{
		Name:             "mysql",
		Placeholder:      func(int) string { return "?" },
		ContainsOperator: "LIKE",
		EscapeClause:     `ESCAPE '\\'`,
	}
)

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case Postgres.Name, "postgresql":
		return Postgres, nil
	case SQLite.Name, "sqlite3":
		return SQLite, nil
	case MySQL.Name:
		return MySQL, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported dialect %q", name)
	}
}
