package filters

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/krew-solutions/filterdeps-go/filterdeps"
	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

// StringMatch selects the matching strategy for String filters.
type StringMatch string

const (
	MatchContains    StringMatch = "contains"
	MatchPrefix      StringMatch = "prefix"
	MatchSuffix      StringMatch = "suffix"
	MatchExact       StringMatch = "exact"
	MatchNotEqual    StringMatch = "not_equal"
	MatchNotContains StringMatch = "not_contains"
)

var stringMatches = map[StringMatch]struct{}{
	MatchContains:    {},
	MatchPrefix:      {},
	MatchSuffix:      {},
	MatchExact:       {},
	MatchNotEqual:    {},
	MatchNotContains: {},
}

// String filters a text column by pattern matching. Matching is
// case-insensitive (ILIKE) unless CaseSensitive is given.
func String(field string, match StringMatch, opts ...Option) filterdeps.Criterion {
	o := buildOptions(opts)
	caseSensitive := o.caseSensitive
	return filterdeps.NewSimple(filterdeps.SimpleConfig{
		Field:       field,
		Alias:       o.alias,
		Description: o.description,
		Type:        filterdeps.TypeString,
		Validate: func(model *schema.Model) error {
			if _, ok := stringMatches[match]; !ok {
				return errors.Wrapf(filterdeps.ErrConfiguration,
					"invalid string match type %q", match)
			}
			_, err := model.Column(field)
			return err
		},
	}, func(model *schema.Model, value any) (expr.Predicate, error) {
		s, err := cast.ToStringE(value)
		if err != nil {
			return nil, errors.Wrapf(filterdeps.ErrInvalidValue, "field %q: %v", field, err)
		}
		return stringPredicate(field, match, s, caseSensitive), nil
	})
}

func stringPredicate(field string, match StringMatch, value string, caseSensitive bool) expr.Predicate {
	fld := expr.Field(expr.GlobalScope(), field)
	like := func(pattern string) expr.Predicate {
		if caseSensitive {
			return expr.Like(fld, expr.Value(pattern))
		}
		return expr.ILike(fld, expr.Value(pattern))
	}
	switch match {
	case MatchPrefix:
		return like(value + "%")
	case MatchSuffix:
		return like("%" + value)
	case MatchExact:
		if caseSensitive {
			return expr.Equal(fld, expr.Value(value))
		}
		return like(value)
	case MatchNotEqual:
		if caseSensitive {
			return expr.NotEqual(fld, expr.Value(value))
		}
		return expr.Not(like(value))
	case MatchNotContains:
		return expr.Not(like("%" + value + "%"))
	default: // MatchContains
		return like("%" + value + "%")
	}
}

// StringIn filters a text column against a set of values (IN, or
// NOT IN with Exclude). The parameter accepts repeated values.
func StringIn(field string, opts ...Option) filterdeps.Criterion {
	o := buildOptions(opts)
	exclude := o.exclude
	description := o.description
	if description == "" {
		verb := "one of"
		if exclude {
			verb = "none of"
		}
		description = fmt.Sprintf("Filter records where '%s' is %s the given values", field, verb)
	}
	return filterdeps.NewSimple(filterdeps.SimpleConfig{
		Field:       field,
		Alias:       o.alias,
		Description: description,
		Type:        filterdeps.TypeStringList,
		Validate: func(model *schema.Model) error {
			_, err := model.Column(field)
			return err
		},
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
			anyMembers[i] = m
		}
		fld := expr.Field(expr.GlobalScope(), field)
		pred := expr.Predicate(expr.In(fld, anyMembers...))
		if exclude {
			pred = expr.Not(pred)
		}
		return pred, nil
	})
}
