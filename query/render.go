package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Render returns the statement with every placeholder replaced by a SQL
// literal of its bound value. The result is for log output only.
func (p Plan) Render() string {
	if p.dialect.numbered {
		return dollarPlaceholder.ReplaceAllStringFunc(p.SQL, func(ph string) string {
			n, err := strconv.Atoi(ph[1:])
			if err != nil || n < 1 || n > len(p.Args) {
				return ph
			}
			return literal(p.Args[n-1])
		})
	}

	var sb strings.Builder
	next := 0
	for _, r := range p.SQL {
		if r == '?' && next < len(p.Args) {
			sb.WriteString(literal(p.Args[next]))
			next++
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case []byte:
		return "'" + strings.ReplaceAll(string(val), "'", "''") + "'"
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return "'" + val.Format(time.RFC3339Nano) + "'"
	case fmt.Stringer:
		return "'" + strings.ReplaceAll(val.String(), "'", "''") + "'"
	default:
		return fmt.Sprint(val)
	}
}
