package relation

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/krew-solutions/filterdeps-go/filterdeps"
	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

// HavingFunc builds the aggregate condition applied in the HAVING clause
// of the grouped subquery. Fields built against the child model stay
// unqualified and resolve to the grouped subquery rows.
type HavingFunc func(child *schema.Model, value any) (expr.Predicate, error)

// WithParamType overrides the declared query-parameter type of a Having
// filter. The default is any.
func WithParamType(t filterdeps.ParamType) Option {
	return func(o *options) {
		o.paramType = t
	}
}

// Having filters parent rows by an aggregate over their related rows:
// the relation's child table is grouped by its foreign-key columns and
// the parent keys are matched with IN against the groups that satisfy
// the aggregate condition. The query value is handed to the HavingFunc
// unchanged. A nil condition result leaves the filter silent.
func Having(relationName string, having HavingFunc, opts ...Option) filterdeps.Criterion {
	o := buildOptions(opts)
	description := o.description
	if description == "" {
		description = fmt.Sprintf("Filter by an aggregate over related '%s' rows", relationName)
	}
	paramType := o.paramType
	if paramType == "" {
		paramType = filterdeps.TypeAny
	}
	exclude := o.exclude
	return filterdeps.NewSimple(filterdeps.SimpleConfig{
		Field:       relationName,
		Alias:       o.alias,
		Description: description,
		Type:        paramType,
		Validate: func(model *schema.Model) error {
			if having == nil {
				return errors.Wrapf(filterdeps.ErrConfiguration,
					"having filter on relation %q has no condition function", relationName)
			}
			rel, err := model.Relation(relationName)
			if err != nil {
				return err
			}
			if len(rel.ForeignKeys) == 0 {
				return errors.Wrapf(filterdeps.ErrConfiguration,
					"relation %q on model %q declares no foreign keys", relationName, model.Name())
			}
			return nil
		},
	}, func(model *schema.Model, value any) (expr.Predicate, error) {
		rel, err := model.Relation(relationName)
		if err != nil {
			return nil, err
		}
		cond, err := having(rel.Model, value)
		if err != nil {
			return nil, err
		}
		if cond == nil {
			return nil, nil
		}
		parentKeys := make([]string, 0, len(rel.ForeignKeys))
		groupBy := make([]string, 0, len(rel.ForeignKeys))
		for _, fk := range rel.ForeignKeys {
			parentKeys = append(parentKeys, fk.ParentColumn)
			groupBy = append(groupBy, fk.ChildColumn)
		}
		var result expr.Predicate = expr.GroupedIn(parentKeys, rel.Model.Table(), groupBy, cond)
		if exclude {
			result = expr.Not(result)
		}
		return result, nil
	})
}
