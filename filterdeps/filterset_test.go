package filterdeps

import (
	"fmt"
	"testing"

	"github.com/icrowley/fake"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/filterdeps-go/filterdeps/expr"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

func testModel() *schema.Model {
	return schema.New("Item", "items",
		schema.WithColumn("id", schema.KindInt),
		schema.WithColumn("name", schema.KindString),
		schema.WithColumn("view_count", schema.KindInt),
	)
}

func nameFilter(alias string) Criterion {
	return NewSimple(SimpleConfig{
		Field: "name",
		Alias: alias,
		Type:  TypeString,
	}, func(model *schema.Model, value any) (expr.Predicate, error) {
		return expr.Equal(expr.Field(expr.GlobalScope(), "name"), expr.Value(value)), nil
	})
}

// --- construction ---

func TestNewFilterSet(t *testing.T) {
	fs, err := New("Items",
		WithModel(testModel()),
		WithField("name", nameFilter("name")),
	)

	require.NoError(t, err)
	assert.Equal(t, "Items", fs.Name())
	assert.False(t, fs.IsAbstract())
	require.Len(t, fs.Params(), 1)
	assert.Equal(t, "name", fs.Params()[0].Name)
}

func TestConcreteFilterSetRequiresModel(t *testing.T) {
	_, err := New("Items", WithField("name", nameFilter("name")))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "requires a model")
}

func TestNilCriterionViolatesContract(t *testing.T) {
	_, err := New("Items",
		WithModel(testModel()),
		WithField("name", nil),
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrContract)
	assert.Contains(t, err.Error(), `"name"`)
}

func TestDuplicateAliasNamesBothFields(t *testing.T) {
	_, err := New("Items",
		WithModel(testModel()),
		WithField("first", nameFilter("q")),
		WithField("second", nameFilter("q")),
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), `"first"`)
	assert.Contains(t, err.Error(), `"second"`)
	assert.Contains(t, err.Error(), `"q"`)
}

func TestAllDeclarationErrorsAreReported(t *testing.T) {
	_, err := New("Items",
		WithField("first", nameFilter("q")),
		WithField("second", nameFilter("q")),
		WithField("third", nil),
	)

	require.Error(t, err)
	// missing model, duplicate alias and nil criterion all at once
	assert.Contains(t, err.Error(), "requires a model")
	assert.Contains(t, err.Error(), `"q"`)
	assert.ErrorIs(t, err, ErrContract)
}

func TestFieldNameBecomesDefaultAlias(t *testing.T) {
	fs, err := New("Items",
		WithModel(testModel()),
		WithField("name", nameFilter("")),
	)

	require.NoError(t, err)
	require.Len(t, fs.Params(), 1)
	assert.Equal(t, "name", fs.Params()[0].Name)
}

// --- composition ---

func TestIncludeMergesFieldsAhead(t *testing.T) {
	base, err := New("Base",
		Abstract(),
		WithField("name", nameFilter("name")),
	)
	require.NoError(t, err)

	fs, err := New("Items",
		WithModel(testModel()),
		Include(base),
		WithField("views", NewSimple(SimpleConfig{
			Field: "view_count",
			Alias: "views",
			Type:  TypeInt,
		}, func(model *schema.Model, value any) (expr.Predicate, error) {
			return expr.GreaterThanEqual(expr.Field(expr.GlobalScope(), "view_count"), expr.Value(value)), nil
		})),
	)
	require.NoError(t, err)

	fields := fs.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "name", fields[0].Name)
	assert.Equal(t, "views", fields[1].Name)
}

func TestLaterFieldOverridesKeepingPosition(t *testing.T) {
	base, err := New("Base",
		Abstract(),
		WithField("name", nameFilter("name")),
		WithField("other", nameFilter("other")),
	)
	require.NoError(t, err)

	override := NewSimple(SimpleConfig{
		Field: "name",
		Alias: "name_override",
		Type:  TypeString,
	}, func(model *schema.Model, value any) (expr.Predicate, error) {
		return expr.ILike(expr.Field(expr.GlobalScope(), "name"), expr.Value(value)), nil
	})

	fs, err := New("Items",
		WithModel(testModel()),
		Include(base),
		WithField("name", override),
	)
	require.NoError(t, err)

	fields := fs.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "name", fields[0].Name)
	assert.Equal(t, []string{"name_override"}, fields[0].Criterion.Aliases())
	assert.Equal(t, "other", fields[1].Name)
}

func TestAbstractSetReusableAcrossModels(t *testing.T) {
	// the predicate carries the bound model's table so cross-contamination
	// between the two concrete sets would be visible
	tableFilter := NewSimple(SimpleConfig{
		Field: "name",
		Alias: "name",
		Type:  TypeString,
	}, func(model *schema.Model, value any) (expr.Predicate, error) {
		obj := expr.Object(expr.GlobalScope(), model.Table())
		return expr.Equal(expr.Field(obj, "name"), expr.Value(value)), nil
	})

	base, err := New("Base",
		Abstract(),
		WithField("name", tableFilter),
	)
	require.NoError(t, err)

	other := schema.New("Other", "others",
		schema.WithColumn("id", schema.KindInt),
		schema.WithColumn("name", schema.KindString),
	)

	first, err := New("Items", WithModel(testModel()), Include(base))
	require.NoError(t, err)
	second, err := New("Others", WithModel(other), Include(base))
	require.NoError(t, err)

	firstPreds, err := first.Resolve(Values{"name": "x"})
	require.NoError(t, err)
	secondPreds, err := second.Resolve(Values{"name": "x"})
	require.NoError(t, err)

	firstField := firstPreds[0].(expr.InfixNode).Left().(expr.FieldNode)
	secondField := secondPreds[0].(expr.InfixNode).Left().(expr.FieldNode)
	assert.Equal(t, []string{"items", "name"}, expr.ExtractFieldPath(firstField))
	assert.Equal(t, []string{"others", "name"}, expr.ExtractFieldPath(secondField))
}

func TestAbstractSetCannotResolve(t *testing.T) {
	base, err := New("Base",
		Abstract(),
		WithField("name", nameFilter("name")),
	)
	require.NoError(t, err)

	_, err = base.Resolve(Values{"name": "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
}

// --- resolution ---

func TestResolveEmptyValuesYieldsNoPredicates(t *testing.T) {
	fs, err := New("Items",
		WithModel(testModel()),
		WithField("name", nameFilter("name")),
	)
	require.NoError(t, err)

	preds, err := fs.Resolve(Values{})
	require.NoError(t, err)
	assert.Empty(t, preds)
}

func TestResolveSkipsNilValues(t *testing.T) {
	fs, err := New("Items",
		WithModel(testModel()),
		WithField("name", nameFilter("name")),
	)
	require.NoError(t, err)

	preds, err := fs.Resolve(Values{"name": nil})
	require.NoError(t, err)
	assert.Empty(t, preds)
}

func TestResolveOrderFollowsDeclaration(t *testing.T) {
	model := schema.New("Wide", "wide",
		schema.WithColumn("id", schema.KindInt),
	)

	var opts []Option
	opts = append(opts, WithModel(model))
	values := Values{}
	var declared []string
	for i := 0; i < 20; i++ {
		alias := fmt.Sprintf("f%02d", i)
		declared = append(declared, alias)
		values[alias] = fake.Word()
		opts = append(opts, WithField(alias, markerFilter(alias)))
	}

	fs, err := New("Wide", opts...)
	require.NoError(t, err)

	for run := 0; run < 5; run++ {
		preds, err := fs.Resolve(values)
		require.NoError(t, err)
		require.Len(t, preds, len(declared))
		for i, p := range preds {
			field := p.(expr.InfixNode).Left().(expr.FieldNode)
			assert.Equal(t, declared[i], field.Name())
		}
	}
}

// markerFilter tags the predicate with its alias so resolution order is
// observable.
func markerFilter(alias string) Criterion {
	return NewSimple(SimpleConfig{
		Field: "id",
		Alias: alias,
		Type:  TypeString,
	}, func(model *schema.Model, value any) (expr.Predicate, error) {
		return expr.Equal(expr.Field(expr.GlobalScope(), alias), expr.Value(value)), nil
	})
}

func TestResolvePropagatesProducerErrors(t *testing.T) {
	boom := errors.New("boom")
	fs, err := New("Items",
		WithModel(testModel()),
		WithField("name", NewSimple(SimpleConfig{
			Field: "name",
			Alias: "name",
			Type:  TypeString,
		}, func(model *schema.Model, value any) (expr.Predicate, error) {
			return nil, boom
		})),
	)
	require.NoError(t, err)

	_, err = fs.Resolve(Values{"name": "x"})
	require.Error(t, err)
	// errors pass through unchanged, no extra wrapping
	assert.Equal(t, boom, err)
}

func TestResolveIsolatesValuesPerProducer(t *testing.T) {
	fs, err := New("Items",
		WithModel(testModel()),
		WithField("name", nameFilter("name")),
	)
	require.NoError(t, err)

	// values for parameters the set never declared are ignored
	preds, err := fs.Resolve(Values{"name": "x", "unrelated": "y"})
	require.NoError(t, err)
	assert.Len(t, preds, 1)
}
