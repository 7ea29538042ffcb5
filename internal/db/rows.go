package db

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/PayRam/go-dbquery/query"
	"github.com/PayRam/go-dbquery/response"
)

// Select executes plan on a connection scoped to the call and returns every
// row, normalized. A failure returns no rows.
func (p *Provider) Select(ctx context.Context, op string, plan query.Plan) ([]response.Row, error) {
	ctx, cancel := p.withQueryTimeout(ctx)
	defer cancel()

	if p.logger.Enabled(ctx, slog.LevelDebug) {
		p.logger.DebugContext(ctx, "executing statement",
			"op", op,
			"statement", plan.Render(),
			"params", len(plan.Args))
	}

	var rows []response.Row
	err := p.WithConn(ctx, func(conn *sql.Conn) error {
		rs, err := conn.QueryContext(ctx, plan.SQL, plan.Args...)
		if err != nil {
			return err
		}
		defer rs.Close()

		rows, err = scanRows(rs)
		return err
	})
	if err != nil {
		return nil, Classify(op, err)
	}
	return rows, nil
}

// scanRows reads every remaining row into a column-keyed map.
// Returns an empty slice (not nil) when there are no rows.
func scanRows(rs *sql.Rows) ([]response.Row, error) {
	columns, err := rs.ColumnTypes()
	if err != nil {
		return nil, err
	}

	rows := []response.Row{}
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rs.Next() {
		if err := rs.Scan(dest...); err != nil {
			return nil, err
		}
		row := make(response.Row, len(columns))
		for i, col := range columns {
			row[col.Name()] = columnValue(col.DatabaseTypeName(), values[i])
		}
		rows = append(rows, query.Normalize(row))
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// columnValue converts driver byte slices into something that serializes as
// the column means it: 16-byte UUIDs become uuid.UUID, binary columns stay
// bytes, everything else is text.
func columnValue(dbType string, v any) any {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	switch strings.ToUpper(dbType) {
	case "UUID":
		if id, err := uuid.FromBytes(b); err == nil {
			return id
		}
		if id, err := uuid.ParseBytes(b); err == nil {
			return id
		}
		return string(b)
	case "BLOB", "BYTEA", "BINARY", "VARBINARY", "LONGBLOB", "MEDIUMBLOB", "TINYBLOB":
		return append([]byte(nil), b...)
	default:
		return string(b)
	}
}
