package filters

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/krew-solutions/filterdeps-go/filterdeps"
	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

// Enum filters a column against one member of an allow list. Values
// outside the list fail resolution with ErrInvalidValue.
func Enum(field string, allowed []string, opts ...Option) filterdeps.Criterion {
	o := buildOptions(opts)
	description := o.description
	if description == "" {
		description = fmt.Sprintf("Filter by '%s' on one of: %s", field, strings.Join(allowed, ", "))
	}
	return filterdeps.NewSimple(filterdeps.SimpleConfig{
		Field:       field,
		Alias:       o.alias,
		Description: description,
		Type:        filterdeps.TypeString,
		Validate:    enumValidate(field, allowed),
	}, func(model *schema.Model, value any) (expr.Predicate, error) {
		member, err := cast.ToStringE(value)
		if err != nil {
			return nil, errors.Wrapf(filterdeps.ErrInvalidValue, "field %q: %v", field, err)
		}
		if err := checkMember(field, allowed, member); err != nil {
			return nil, err
		}
		return expr.Equal(expr.Field(expr.GlobalScope(), field), expr.Value(member)), nil
	})
}

// MultiEnum filters a column against any of several allow-listed
// members (SQL IN).
func MultiEnum(field string, allowed []string, opts ...Option) filterdeps.Criterion {
	o := buildOptions(opts)
	description := o.description
	if description == "" {
		description = fmt.Sprintf("Filter by '%s' on one or more of: %s", field, strings.Join(allowed, ", "))
	}
	return filterdeps.NewSimple(filterdeps.SimpleConfig{
		Field:       field,
		Alias:       o.alias,
		Description: description,
		Type:        filterdeps.TypeStringList,
		Validate:    enumValidate(field, allowed),
	}, func(model *schema.Model, value any) (expr.Predicate, error) {
		members, err := cast.ToStringSliceE(value)
		if err != nil {
			return nil, errors.Wrapf(filterdeps.ErrInvalidValue, "field %q: %v", field, err)
		}
		if len(members) == 0 {
			return nil, nil
		}
		anyMembers := make([]any, len(members))
		for i, m := range members {
			if err := checkMember(field, allowed, m); err != nil {
				return nil, err
			}
			anyMembers[i] = m
		}
		return expr.In(expr.Field(expr.GlobalScope(), field), anyMembers...), nil
	})
}

func enumValidate(field string, allowed []string) func(*schema.Model) error {
	return func(model *schema.Model) error {
		if len(allowed) == 0 {
			return errors.Wrapf(filterdeps.ErrConfiguration,
				"enum filter on %q has no allowed values", field)
		}
		_, err := model.Column(field)
		return err
	}
}

func checkMember(field string, allowed []string, member string) error {
	if !slices.Contains(allowed, member) {
		return errors.Wrapf(filterdeps.ErrInvalidValue,
			"invalid value %q for %q, valid values are: %s",
			member, field, strings.Join(allowed, ", "))
	}
	return nil
}
