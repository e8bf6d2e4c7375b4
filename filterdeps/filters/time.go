package filters

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/krew-solutions/filterdeps-go/filterdeps"
	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

// TimeOp selects the comparison a Time filter applies.
type TimeOp string

const (
	TimeGte TimeOp = "gte"
	TimeGt  TimeOp = "gt"
	TimeLte TimeOp = "lte"
	TimeLt  TimeOp = "lt"
)

var timeOpWords = map[TimeOp]string{
	TimeGte: "on or after",
	TimeGt:  "after",
	TimeLte: "on or before",
	TimeLt:  "before",
}

// Time filters a timestamp column against an absolute point in time.
func Time(field string, op TimeOp, opts ...Option) filterdeps.Criterion {
	o := buildOptions(opts)
	description := o.description
	if description == "" {
		description = fmt.Sprintf("Filter records where '%s' is %s the given time", field, timeOpWords[op])
	}
	return filterdeps.NewSimple(filterdeps.SimpleConfig{
		Field:       field,
		Alias:       o.alias,
		Description: description,
		Type:        filterdeps.TypeTime,
		Validate: func(model *schema.Model) error {
			if _, ok := timeOpWords[op]; !ok {
				return errors.Wrapf(filterdeps.ErrConfiguration,
					"invalid time operator %q", op)
			}
			_, err := model.Column(field)
			return err
		},
	}, func(model *schema.Model, value any) (expr.Predicate, error) {
		t, err := cast.ToTimeE(value)
		if err != nil {
			return nil, errors.Wrapf(filterdeps.ErrInvalidValue, "field %q: %v", field, err)
		}
		return timeComparison(field, op, t), nil
	})
}

func timeComparison(field string, op TimeOp, t time.Time) expr.Predicate {
	fld := expr.Field(expr.GlobalScope(), field)
	switch op {
	case TimeGt:
		return expr.GreaterThan(fld, expr.Value(t))
	case TimeLte:
		return expr.LessThanEqual(fld, expr.Value(t))
	case TimeLt:
		return expr.LessThan(fld, expr.Value(t))
	default: // TimeGte
		return expr.GreaterThanEqual(fld, expr.Value(t))
	}
}
