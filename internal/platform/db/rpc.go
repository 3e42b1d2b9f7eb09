package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Result is the success/message pair every write procedure returns.
type Result struct {
	Success bool   `db:"success"`
	Message string `db:"message"`
}

var procedureName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ErrBadProcedure is returned for procedure names that are not plain identifiers.
var ErrBadProcedure = errors.New("platform/db: invalid procedure name")

// CallSQL renders "SELECT * FROM proc($1, ..., $n)".
func CallSQL(proc string, argc int) (string, error) {
	if !procedureName.MatchString(proc) {
		return "", fmt.Errorf("%w: %q", ErrBadProcedure, proc)
	}
	params := make([]string, argc)
	for i := range params {
		params[i] = "$" + strconv.Itoa(i+1)
	}
	return "SELECT * FROM " + proc + "(" + strings.Join(params, ", ") + ")", nil
}

// Call invokes a set-returning procedure.
func Call(ctx context.Context, q Querier, proc string, args ...any) (pgx.Rows, error) {
	sql, err := CallSQL(proc, len(args))
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("platform/db: %s: %w", proc, err)
	}
	return rows, nil
}

// CallInto invokes a procedure and scans every row into T by column name.
func CallInto[T any](ctx context.Context, q Querier, proc string, args ...any) ([]T, error) {
	rows, err := Call(ctx, q, proc, args...)
	if err != nil {
		return nil, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		return nil, fmt.Errorf("platform/db: %s: %w", proc, err)
	}
	return items, nil
}

// CallOne invokes a procedure that must return exactly one row.
func CallOne[T any](ctx context.Context, q Querier, proc string, args ...any) (T, error) {
	var zero T
	rows, err := Call(ctx, q, proc, args...)
	if err != nil {
		return zero, err
	}
	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, shared.ErrNotFound
		}
		return zero, fmt.Errorf("platform/db: %s: %w", proc, err)
	}
	return item, nil
}

// CallResult invokes a write procedure and turns success=false into a
// *shared.Rejected carrying the procedure's message.
func CallResult(ctx context.Context, q Querier, proc string, args ...any) error {
	res, err := CallOne[Result](ctx, q, proc, args...)
	if err != nil {
		return err
	}
	if !res.Success {
		return &shared.Rejected{Procedure: proc, Message: res.Message}
	}
	return nil
}
