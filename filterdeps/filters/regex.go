package filters

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/krew-solutions/filterdeps-go/filterdeps"
	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

// Regex filters a text column by POSIX regular expression, using the
// backend's ~ and ~* operators. Case-insensitive unless CaseSensitive
// is given.
func Regex(field string, opts ...Option) filterdeps.Criterion {
	o := buildOptions(opts)
	caseSensitive := o.caseSensitive
	description := o.description
	if description == "" {
		description = fmt.Sprintf("Filter by '%s' using a regular expression, e.g. '^Item' for prefix matching", field)
	}
	return filterdeps.NewSimple(filterdeps.SimpleConfig{
		Field:       field,
		Alias:       o.alias,
		Description: description,
		Type:        filterdeps.TypeString,
		Validate: func(model *schema.Model) error {
			_, err := model.Column(field)
			return err
		},
	}, func(model *schema.Model, value any) (expr.Predicate, error) {
		pattern, err := cast.ToStringE(value)
		if err != nil {
			return nil, errors.Wrapf(filterdeps.ErrInvalidValue, "field %q: %v", field, err)
		}
		fld := expr.Field(expr.GlobalScope(), field)
		if caseSensitive {
			return expr.RegexMatch(fld, expr.Value(pattern)), nil
		}
		return expr.RegexIMatch(fld, expr.Value(pattern)), nil
	})
}
