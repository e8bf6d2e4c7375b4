package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
)

// Queryer is the subset of pgx used here. pgxpool.Pool, pgx.Conn and
// pgx.Tx all satisfy it.
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Select appends the compiled predicates as a WHERE clause to base and
// runs the query. base must be a complete SELECT without a WHERE part.
func Select(ctx context.Context, q Queryer, base string, preds []expr.Predicate) (pgx.Rows, error) {
	clause, params, err := Where(preds)
	if err != nil {
		return nil, errors.Wrap(err, "unable to compile filter predicates")
	}
	sql := base
	if clause != "" {
		sql += " WHERE " + clause
	}
	return q.Query(ctx, sql, params...)
}
