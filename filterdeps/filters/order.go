package filters

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/krew-solutions/filterdeps-go/filterdeps"
	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

// OrderType picks which end of the ranking a row must sit at to match.
type OrderType string

const (
	OrderMax OrderType = "max"
	OrderMin OrderType = "min"
)

// Order keeps only the row ranking first on a column, per partition: the
// rows are numbered with ROW_NUMBER() ordered by the column (descending
// for max, ascending for min, primary keys breaking ties) and the model's
// primary keys are matched with IN against the rank-1 rows. The boolean
// query parameter enables the filter; false leaves it silent. Requires
// the model to declare a primary key.
func Order(field string, partitionBy []string, orderType OrderType, opts ...Option) filterdeps.Criterion {
	o := buildOptions(opts)
	description := o.description
	if description == "" {
		scope := "overall"
		if len(partitionBy) > 0 {
			scope = fmt.Sprintf("within each group of %v", partitionBy)
		}
		description = fmt.Sprintf("Keep only the record with the %s '%s' value %s", orderType, field, scope)
	}
	return filterdeps.NewSimple(filterdeps.SimpleConfig{
		Field:       field,
		Alias:       o.alias,
		Description: description,
		Type:        filterdeps.TypeBool,
		Validate: func(model *schema.Model) error {
			if orderType != OrderMax && orderType != OrderMin {
				return errors.Wrapf(filterdeps.ErrConfiguration,
					"invalid order type %q", orderType)
			}
			if _, err := model.Column(field); err != nil {
				return err
			}
			for _, p := range partitionBy {
				if _, err := model.Column(p); err != nil {
					return err
				}
			}
			if len(model.PrimaryKey()) == 0 {
				return errors.Wrapf(filterdeps.ErrConfiguration,
					"order filter on field %q requires model %q to declare a primary key", field, model.Name())
			}
			return nil
		},
	}, func(model *schema.Model, value any) (expr.Predicate, error) {
		enabled, err := cast.ToBoolE(value)
		if err != nil {
			return nil, errors.Wrapf(filterdeps.ErrInvalidValue, "field %q: %v", field, err)
		}
		if !enabled {
			return nil, nil
		}
		desc := orderType == OrderMax
		keys := model.PrimaryKey()
		rankBy := make([]expr.RankKey, 0, 1+len(keys))
		rankBy = append(rankBy, expr.RankKey{Field: field, Desc: desc})
		// Primary keys break ties so exactly one row ranks first.
		for _, key := range keys {
			rankBy = append(rankBy, expr.RankKey{Field: key, Desc: desc})
		}
		return expr.RankedIn(keys, model.Table(), partitionBy, rankBy), nil
	})
}
