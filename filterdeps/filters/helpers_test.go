package filters

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/filterdeps-go/filterdeps"
	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/expr/postgres"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

func productModel() *schema.Model {
	return schema.New("Product", "products",
		schema.WithPrimaryKey("id"),
		schema.WithColumn("id", schema.KindInt),
		schema.WithColumn("name", schema.KindString),
		schema.WithColumn("status", schema.KindString),
		schema.WithColumn("price", schema.KindFloat),
		schema.WithColumn("view_count", schema.KindInt),
		schema.WithColumn("is_active", schema.KindBool),
		schema.WithColumn("created_at", schema.KindTime),
	)
}

// produceOne builds the criterion against the product model and runs it
// with a single parameter value.
func produceOne(t *testing.T, c filterdeps.Criterion, alias string, value any) expr.Predicate {
	t.Helper()
	p, err := c.BuildFilter(productModel())
	require.NoError(t, err)
	pred, err := p.Produce(filterdeps.Values{alias: value})
	require.NoError(t, err)
	return pred
}

// compileOne renders the produced predicate as PostgreSQL.
func compileOne(t *testing.T, c filterdeps.Criterion, alias string, value any) (string, []any) {
	t.Helper()
	pred := produceOne(t, c, alias, value)
	require.NotNil(t, pred)
	sql, params, err := postgres.Compile(pred)
	require.NoError(t, err)
	return sql, params
}
