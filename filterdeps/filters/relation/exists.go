package relation

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/krew-solutions/filterdeps-go/filterdeps"
	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

// ConditionFunc builds a static condition on the related model, applied
// inside the EXISTS subquery in addition to the join keys. Fields built
// against the child model stay unqualified and resolve to the subquery
// row.
type ConditionFunc func(child *schema.Model) (expr.Predicate, error)

// IncludeUnrelated changes what a false query value means for Exists:
// parents with no related rows at all also match, instead of only
// parents whose related rows all miss the condition.
func IncludeUnrelated() Option {
	return func(o *options) {
		o.includeUnrelated = true
	}
}

// Exists declares a boolean parameter that filters parents on whether a
// related row matching condition exists. True keeps parents with such a
// row. False keeps parents that have related rows but none matching; see
// IncludeUnrelated for the broader reading. A nil condition tests bare
// relatedness.
func Exists(relationName string, condition ConditionFunc, opts ...Option) filterdeps.Criterion {
	o := buildOptions(opts)
	description := o.description
	if description == "" {
		description = fmt.Sprintf("Filter by whether a matching '%s' row exists", relationName)
	}
	includeUnrelated := o.includeUnrelated
	return filterdeps.NewSimple(filterdeps.SimpleConfig{
		Field:       relationName,
		Alias:       o.alias,
		Description: description,
		Type:        filterdeps.TypeBool,
		Validate: func(model *schema.Model) error {
			rel, err := model.Relation(relationName)
			if err != nil {
				return err
			}
			if len(rel.ForeignKeys) == 0 {
				return errors.Wrapf(filterdeps.ErrConfiguration,
					"relation %q on model %q declares no foreign keys", relationName, model.Name())
			}
			if condition != nil {
				if _, err := condition(rel.Model); err != nil {
					return err
				}
			}
			return nil
		},
	}, func(model *schema.Model, value any) (expr.Predicate, error) {
		want, err := cast.ToBoolE(value)
		if err != nil {
			return nil, errors.Wrapf(filterdeps.ErrInvalidValue,
				"relation %q: %v", relationName, err)
		}
		rel, err := model.Relation(relationName)
		if err != nil {
			return nil, err
		}
		subAlias := subqueryAlias(rel)
		link := foreignKeyConditions(model, rel, subAlias)
		body := link
		if condition != nil {
			cond, err := condition(rel.Model)
			if err != nil {
				return nil, err
			}
			if cond != nil {
				body = expr.And(link, cond)
			}
		}
		matching := expr.Exists(rel.Model.Table(), subAlias, body)
		if want {
			return matching, nil
		}
		if includeUnrelated || condition == nil {
			return expr.Not(matching), nil
		}
		// Related rows exist, but none matches the condition.
		related := expr.Exists(rel.Model.Table(), subAlias, link)
		return expr.And(related, expr.Not(matching)), nil
	})
}
