// Package jsonfield filters JSON columns: tag-style key/value matching
// and path-based access.
package jsonfield

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/krew-solutions/filterdeps-go/filterdeps"
	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

type options struct {
	alias       string
	description string
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

func buildOptions(opts []Option) options {
	var o options
	for i := range opts {
		opts[i](&o)
	}
	return o
}

// Tags filters a JSON object column by tag entries. Each query value is
// either "key" (the key must be present) or "key:value" (the key must
// hold that value); multiple entries combine with AND.
func Tags(field string, opts ...Option) filterdeps.Criterion {
	o := buildOptions(opts)
	description := o.description
	if description == "" {
		description = "Filter by tags. Use 'key' for existence or 'key:value' for a specific value. Multiple tags are combined with AND"
	}
	return filterdeps.NewSimple(filterdeps.SimpleConfig{
		Field:       field,
		Alias:       o.alias,
		Description: description,
		Type:        filterdeps.TypeStringList,
		Validate:    jsonColumn(field),
	}, func(model *schema.Model, value any) (expr.Predicate, error) {
		entries, err := cast.ToStringSliceE(value)
		if err != nil {
			return nil, errors.Wrapf(filterdeps.ErrInvalidValue, "field %q: %v", field, err)
		}
		if len(entries) == 0 {
			return nil, nil
		}
		fld := expr.Field(expr.GlobalScope(), field)
		preds := make([]expr.Predicate, 0, len(entries))
		for _, entry := range entries {
			key, val, hasValue := strings.Cut(entry, ":")
			key = strings.TrimSpace(key)
			access := expr.JSONText(fld, key)
			if hasValue {
				preds = append(preds, expr.Equal(access, expr.Value(strings.TrimSpace(val))))
			} else {
				preds = append(preds, expr.IsNotNull(access))
			}
		}
		if len(preds) == 1 {
			return preds[0], nil
		}
		return expr.And(preds[0], preds[1:]...), nil
	})
}

func jsonColumn(field string) func(*schema.Model) error {
	return func(model *schema.Model) error {
		col, err := model.Column(field)
		if err != nil {
			return err
		}
		if col.Kind != schema.KindJSON {
			return errors.Wrapf(filterdeps.ErrConfiguration,
				"column %q is of kind %q, JSON filters require a json column", field, col.Kind)
		}
		return nil
	}
}
