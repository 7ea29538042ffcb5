package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/PayRam/go-dbquery/queryerr"
)

// Classify tags err as a Connection or QueryExecution error for op. Errors
// that already carry a kind are returned unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if queryerr.KindOf(err) != "" {
		return err
	}
	if IsConnectionFailure(err) {
		return queryerr.New(queryerr.Connection, op, err)
	}
	return queryerr.New(queryerr.QueryExecution, op, err)
}

// IsConnectionFailure reports whether err means the database could not be
// reached or refused the session, as opposed to refusing a statement.
// A cancelled or timed out statement is a statement outcome, even though
// context.DeadlineExceeded also satisfies net.Error.
func IsConnectionFailure(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if len(pgErr.Code) < 2 {
			return false
		}
		switch pgErr.Code[:2] {
		case "08", // connection exception
			"28", // invalid authorization specification
			"3D", // invalid catalog name
			"57": // operator intervention, e.g. admin shutdown
			return pgErr.Code != "57014" // query_canceled is a statement outcome
		}
		return false
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1044, // access denied to database
			1045, // access denied for user
			1049, // unknown database
			1040: // too many connections
			return true
		}
		return false
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code {
		case sqlite3.ErrCantOpen, sqlite3.ErrNotADB, sqlite3.ErrAuth:
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
