package jsonfield

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/krew-solutions/filterdeps-go/filterdeps"
	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

// PathOp selects how a Path filter compares the extracted JSON value.
type PathOp string

const (
	// PathEquals matches the extracted text exactly.
	PathEquals PathOp = "equals"
	// PathExists matches when the path resolves to a non-null value.
	PathExists PathOp = "exists"
	// PathContains matches when the extracted text contains the query
	// value, case-insensitively.
	PathContains PathOp = "contains"
)

// Path filters a JSON column by a nested path, e.g. "meta.author.name".
// The path is split on dots and extracted as text with the #>> operator.
func Path(field, path string, op PathOp, opts ...Option) filterdeps.Criterion {
	o := buildOptions(opts)
	description := o.description
	if description == "" {
		description = fmt.Sprintf("Filter by JSON path '%s' in '%s' (%s)", path, field, op)
	}
	paramType := filterdeps.TypeString
	if op == PathExists {
		paramType = filterdeps.TypeBool
	}
	return filterdeps.NewSimple(filterdeps.SimpleConfig{
		Field:       field,
		Alias:       o.alias,
		Description: description,
		Type:        paramType,
		Validate: func(model *schema.Model) error {
			switch op {
			case PathEquals, PathExists, PathContains:
			default:
				return errors.Wrapf(filterdeps.ErrConfiguration,
					"invalid JSON path operator %q", op)
			}
			if strings.TrimSpace(path) == "" {
				return errors.Wrapf(filterdeps.ErrConfiguration,
					"JSON path filter on %q has an empty path", field)
			}
			return jsonColumn(field)(model)
		},
	}, func(model *schema.Model, value any) (expr.Predicate, error) {
		access := expr.JSONPath(expr.Field(expr.GlobalScope(), field), strings.Split(path, "."))
		switch op {
		case PathExists:
			want, err := cast.ToBoolE(value)
			if err != nil {
				return nil, errors.Wrapf(filterdeps.ErrInvalidValue, "field %q: %v", field, err)
			}
			if want {
				return expr.IsNotNull(access), nil
			}
			return expr.IsNull(access), nil
		case PathContains:
			s, err := cast.ToStringE(value)
			if err != nil {
				return nil, errors.Wrapf(filterdeps.ErrInvalidValue, "field %q: %v", field, err)
			}
			return expr.ILike(access, expr.Value("%"+s+"%")), nil
		default: // PathEquals
			s, err := cast.ToStringE(value)
			if err != nil {
				return nil, errors.Wrapf(filterdeps.ErrInvalidValue, "field %q: %v", field, err)
			}
			return expr.Equal(access, expr.Value(s)), nil
		}
	})
}
