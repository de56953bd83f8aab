package mapper

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Extract reads the current row into a T by matching column names against
// T's db tags. Columns the query does not select leave their fields at the
// zero value, which for optional.Optional fields means absent.
func Extract[T any](rows *sqlx.Rows) (T, error) {
	var e T
	err := rows.StructScan(&e)
	return e, err
}

// ExtractAll runs query and extracts every row. The result is never nil.
func ExtractAll[T any](ctx context.Context, q sqlx.QueryerContext, query string, args ...any) ([]T, error) {
	rows, err := q.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0, 8)
	for rows.Next() {
		e, err := Extract[T](rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ExtractOne runs query and extracts the first row. found is false when the
// query returned nothing.
func ExtractOne[T any](ctx context.Context, q sqlx.QueryerContext, query string, args ...any) (e T, found bool, err error) {
	err = sqlx.GetContext(ctx, q, &e, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return e, false, nil
	}
	if err != nil {
		return e, false, err
	}
	return e, true, nil
}
