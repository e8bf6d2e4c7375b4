package postgres

import (
	"strings"

	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/orderby"
)

// Compile renders a single predicate to SQL text plus bind parameters.
func Compile(p expr.Predicate, opts ...VisitorOption) (sql string, params []any, err error) {
	v := NewVisitor(opts...)
	err = p.Accept(v)
	if err != nil {
		return "", nil, err
	}
	return v.Result()
}

// Where folds a resolved predicate list with AND and renders it. An
// empty list yields an empty clause and no parameters.
func Where(preds []expr.Predicate, opts ...VisitorOption) (sql string, params []any, err error) {
	if len(preds) == 0 {
		return "", nil, nil
	}
	if len(preds) == 1 {
		return Compile(preds[0], opts...)
	}
	return Compile(expr.And(preds[0], preds[1:]...), opts...)
}

// OrderClause renders orderings as ORDER BY text. Field names come from
// a construction-time whitelist, never from raw request input.
func OrderClause(ords []orderby.Ordering) string {
	if len(ords) == 0 {
		return ""
	}
	parts := make([]string, 0, len(ords))
	for _, o := range ords {
		if o.Desc {
			parts = append(parts, o.Field+" DESC")
		} else {
			parts = append(parts, o.Field+" ASC")
		}
	}
	return strings.Join(parts, ", ")
}
