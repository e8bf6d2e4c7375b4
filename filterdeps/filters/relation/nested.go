// Package relation filters parent rows by properties of related rows,
// compiling to EXISTS subqueries over the related table.
package relation

import (
	"github.com/jinzhu/inflection"
	"github.com/pkg/errors"

	"github.com/krew-solutions/filterdeps-go/filterdeps"
	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

type options struct {
	alias            string
	description      string
	exclude          bool
	includeUnrelated bool
	paramType        filterdeps.ParamType
}

type Option func(*options)

func WithAlias(alias string) Option {
	return func(o *options) {
		o.alias = alias
	}
}

func WithDescription(description string) Option {
	return func(o *options) {
		o.description = description
	}
}

// Exclude negates the subquery: parents WITHOUT a matching related row.
func Exclude() Option {
	return func(o *options) {
		o.exclude = true
	}
}

func buildOptions(opts []Option) options {
	var o options
	for i := range opts {
		opts[i](&o)
	}
	return o
}

// Nested filters parent rows by criteria evaluated against a declared
// relation's model. Child criteria keep their own query parameters and
// must carry explicit aliases; their predicates fold with AND inside a
// single EXISTS subquery, and children that yield no predicate drop out.
// When no child contributes, the whole filter stays silent.
func Nested(relationName string, children []filterdeps.Criterion, opts ...Option) filterdeps.Criterion {
	return &nested{
		relation: relationName,
		children: children,
		opts:     buildOptions(opts),
	}
}

type nested struct {
	relation string
	children []filterdeps.Criterion
	opts     options
}

func (n *nested) Aliases() []string {
	var aliases []string
	for _, child := range n.children {
		aliases = append(aliases, child.Aliases()...)
	}
	return aliases
}

func (n *nested) BuildFilter(model *schema.Model) (*filterdeps.Producer, error) {
	if len(n.children) == 0 {
		return nil, errors.Wrapf(filterdeps.ErrConfiguration,
			"nested filter on relation %q has no child criteria", n.relation)
	}
	rel, err := model.Relation(n.relation)
	if err != nil {
		return nil, err
	}
	if len(rel.ForeignKeys) == 0 {
		return nil, errors.Wrapf(filterdeps.ErrConfiguration,
			"relation %q on model %q declares no foreign keys", n.relation, model.Name())
	}
	producers := make([]*filterdeps.Producer, 0, len(n.children))
	var params []filterdeps.Param
	for _, child := range n.children {
		if len(child.Aliases()) == 0 {
			return nil, errors.Wrapf(filterdeps.ErrConfiguration,
				"child criteria of nested filter on relation %q need explicit aliases", n.relation)
		}
		p, err := child.BuildFilter(rel.Model)
		if err != nil {
			return nil, err
		}
		params, err = appendParams(params, p.Params)
		if err != nil {
			return nil, err
		}
		producers = append(producers, p)
	}
	alias := subqueryAlias(rel)
	link := foreignKeyConditions(model, rel, alias)
	exclude := n.opts.exclude
	return &filterdeps.Producer{
		Params: params,
		Produce: func(values filterdeps.Values) (expr.Predicate, error) {
			var preds []expr.Predicate
			for _, p := range producers {
				pred, err := p.Produce(values)
				if err != nil {
					return nil, err
				}
				if pred != nil {
					preds = append(preds, pred)
				}
			}
			if len(preds) == 0 {
				return nil, nil
			}
			body := expr.And(link, preds...)
			var result expr.Predicate = expr.Exists(rel.Model.Table(), alias, body)
			if exclude {
				result = expr.Not(result)
			}
			return result, nil
		},
	}, nil
}

// subqueryAlias names the related table inside the subquery, singular
// so the join conditions read naturally ("comment.post_id = posts.id").
func subqueryAlias(rel schema.Relation) string {
	return inflection.Singular(rel.Model.Table())
}

// foreignKeyConditions links the aliased subquery row to the enclosing
// parent row, one equality per key column, both sides fully qualified.
func foreignKeyConditions(parent *schema.Model, rel schema.Relation, alias string) expr.Predicate {
	child := expr.Object(expr.GlobalScope(), alias)
	outer := expr.Object(expr.GlobalScope(), parent.Table())
	conds := make([]expr.Predicate, 0, len(rel.ForeignKeys))
	for _, fk := range rel.ForeignKeys {
		conds = append(conds, expr.Equal(
			expr.Field(child, fk.ChildColumn),
			expr.Field(outer, fk.ParentColumn),
		))
	}
	if len(conds) == 1 {
		return conds[0]
	}
	return expr.And(conds[0], conds[1:]...)
}

func appendParams(params, more []filterdeps.Param) ([]filterdeps.Param, error) {
	for _, p := range more {
		for _, existing := range params {
			if existing.Name == p.Name {
				return nil, errors.Wrapf(filterdeps.ErrConfiguration,
					"parameter %q is declared by more than one nested child criterion", p.Name)
			}
		}
		params = append(params, p)
	}
	return params, nil
}
