package filters

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/krew-solutions/filterdeps-go/filterdeps"
	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

// BinaryCheck selects the truth or nullability test a Binary filter
// applies when the query value is true. A false query value applies the
// logical opposite.
type BinaryCheck string

const (
	IsTrue    BinaryCheck = "is_true"
	IsFalse   BinaryCheck = "is_false"
	IsNull    BinaryCheck = "is_null"
	IsNotNull BinaryCheck = "is_not_null"
)

var binaryOpposite = map[BinaryCheck]BinaryCheck{
	IsTrue:    IsFalse,
	IsFalse:   IsTrue,
	IsNull:    IsNotNull,
	IsNotNull: IsNull,
}

// Binary filters on truthiness or nullability of a column via a boolean
// query parameter.
func Binary(field string, check BinaryCheck, opts ...Option) filterdeps.Criterion {
	o := buildOptions(opts)
	description := o.description
	if description == "" {
		description = fmt.Sprintf("Filter records where '%s' satisfies the '%s' check; false applies the opposite", field, check)
	}
	return filterdeps.NewSimple(filterdeps.SimpleConfig{
		Field:       field,
		Alias:       o.alias,
		Description: description,
		Type:        filterdeps.TypeBool,
		Validate: func(model *schema.Model) error {
			if _, ok := binaryOpposite[check]; !ok {
				return errors.Wrapf(filterdeps.ErrConfiguration,
					"invalid binary check %q", check)
			}
			_, err := model.Column(field)
			return err
		},
	}, func(model *schema.Model, value any) (expr.Predicate, error) {
		enabled, err := cast.ToBoolE(value)
		if err != nil {
			return nil, errors.Wrapf(filterdeps.ErrInvalidValue, "field %q: %v", field, err)
		}
		effective := check
		if !enabled {
			effective = binaryOpposite[check]
		}
		fld := expr.Field(expr.GlobalScope(), field)
		switch effective {
		case IsFalse:
			return expr.IsFalse(fld), nil
		case IsNull:
			return expr.IsNull(fld), nil
		case IsNotNull:
			return expr.IsNotNull(fld), nil
		default:
			return expr.IsTrue(fld), nil
		}
	})
}
