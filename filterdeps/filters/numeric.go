package filters

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/krew-solutions/filterdeps-go/filterdeps"
	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

// NumericOp selects the comparison a numeric filter applies.
type NumericOp string

const (
	OpEq  NumericOp = "eq"
	OpNe  NumericOp = "ne"
	OpGt  NumericOp = "gt"
	OpGte NumericOp = "gte"
	OpLt  NumericOp = "lt"
	OpLte NumericOp = "lte"
)

var numericOpWords = map[NumericOp]string{
	OpEq:  "is equal to",
	OpNe:  "is not equal to",
	OpGt:  "is greater than",
	OpGte: "is greater than or equal to",
	OpLt:  "is less than",
	OpLte: "is less than or equal to",
}

// Int filters an integer column with a single comparison. Ranges are
// declared as two fields (a gte and an lte filter on the same column).
func Int(field string, op NumericOp, opts ...Option) filterdeps.Criterion {
	return numeric(field, op, filterdeps.TypeInt, opts)
}

// Float filters a floating-point column with a single comparison.
func Float(field string, op NumericOp, opts ...Option) filterdeps.Criterion {
	return numeric(field, op, filterdeps.TypeFloat, opts)
}

func numeric(field string, op NumericOp, typ filterdeps.ParamType, opts []Option) filterdeps.Criterion {
	o := buildOptions(opts)
	description := o.description
	if description == "" {
		description = fmt.Sprintf("Filter records where '%s' %s the given value", field, numericOpWords[op])
	}
	return filterdeps.NewSimple(filterdeps.SimpleConfig{
		Field:       field,
		Alias:       o.alias,
		Description: description,
		Type:        typ,
		Validate: func(model *schema.Model) error {
			if _, ok := numericOpWords[op]; !ok {
				return errors.Wrapf(filterdeps.ErrConfiguration,
					"invalid numeric operator %q", op)
			}
			_, err := model.Column(field)
			return err
		},
	}, func(model *schema.Model, value any) (expr.Predicate, error) {
		coerced, err := coerceNumeric(value, typ)
		if err != nil {
			return nil, errors.Wrapf(filterdeps.ErrInvalidValue, "field %q: %v", field, err)
		}
		return comparison(expr.Field(expr.GlobalScope(), field), op, expr.Value(coerced)), nil
	})
}

func coerceNumeric(value any, typ filterdeps.ParamType) (any, error) {
	if typ == filterdeps.TypeFloat {
		return cast.ToFloat64E(value)
	}
	return cast.ToInt64E(value)
}

func comparison(left expr.Visitable, op NumericOp, right expr.Visitable) expr.Predicate {
	switch op {
	case OpNe:
		return expr.NotEqual(left, right)
	case OpGt:
		return expr.GreaterThan(left, right)
	case OpGte:
		return expr.GreaterThanEqual(left, right)
	case OpLt:
		return expr.LessThan(left, right)
	case OpLte:
		return expr.LessThanEqual(left, right)
	default: // OpEq
		return expr.Equal(left, right)
	}
}
