package jsonfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/filterdeps-go/filterdeps"
	"github.com/krew-solutions/filterdeps-go/filterdeps/expr/postgres"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

func articleModel() *schema.Model {
	return schema.New("Article", "articles",
		schema.WithColumn("id", schema.KindInt),
		schema.WithColumn("title", schema.KindString),
		schema.WithColumn("tags", schema.KindJSON),
		schema.WithColumn("meta", schema.KindJSON),
	)
}

func compileOne(t *testing.T, c filterdeps.Criterion, alias string, value any) (string, []any) {
	t.Helper()
	p, err := c.BuildFilter(articleModel())
	require.NoError(t, err)
	pred, err := p.Produce(filterdeps.Values{alias: value})
	require.NoError(t, err)
	require.NotNil(t, pred)
	sql, params, err := postgres.Compile(pred)
	require.NoError(t, err)
	return sql, params
}

// --- tags ---

func TestTagsKeyExistence(t *testing.T) {
	c := Tags("tags", WithAlias("tags"))

	sql, params := compileOne(t, c, "tags", []string{"featured"})
	assert.Equal(t, "tags ->> $1 IS NOT NULL", sql)
	assert.Equal(t, []any{"featured"}, params)
}

func TestTagsKeyValueMatch(t *testing.T) {
	c := Tags("tags", WithAlias("tags"))

	sql, params := compileOne(t, c, "tags", []string{"env:prod"})
	assert.Equal(t, "tags ->> $1 = $2", sql)
	assert.Equal(t, []any{"env", "prod"}, params)
}

func TestTagsCombineWithAnd(t *testing.T) {
	c := Tags("tags", WithAlias("tags"))

	sql, params := compileOne(t, c, "tags", []string{"featured", "env:prod"})
	assert.Equal(t, "tags ->> $1 IS NOT NULL AND tags ->> $2 = $3", sql)
	assert.Equal(t, []any{"featured", "env", "prod"}, params)
}

func TestTagsEmptyListIsSilent(t *testing.T) {
	c := Tags("tags", WithAlias("tags"))

	p, err := c.BuildFilter(articleModel())
	require.NoError(t, err)

	pred, err := p.Produce(filterdeps.Values{"tags": []string{}})
	require.NoError(t, err)
	assert.Nil(t, pred)
}

func TestTagsRequireJSONColumn(t *testing.T) {
	c := Tags("title", WithAlias("tags"))

	_, err := c.BuildFilter(articleModel())
	require.Error(t, err)
	assert.ErrorIs(t, err, filterdeps.ErrConfiguration)
	assert.Contains(t, err.Error(), `"title"`)
}

// --- path ---

func TestPathEquals(t *testing.T) {
	c := Path("meta", "author.name", PathEquals, WithAlias("author"))

	sql, params := compileOne(t, c, "author", "ann")
	assert.Equal(t, "meta #>> $1 = $2", sql)
	require.Len(t, params, 2)
	assert.Equal(t, []string{"author", "name"}, params[0])
	assert.Equal(t, "ann", params[1])
}

func TestPathExists(t *testing.T) {
	c := Path("meta", "review", PathExists, WithAlias("reviewed"))

	sql, _ := compileOne(t, c, "reviewed", true)
	assert.Equal(t, "meta #>> $1 IS NOT NULL", sql)

	sql, _ = compileOne(t, c, "reviewed", false)
	assert.Equal(t, "meta #>> $1 IS NULL", sql)
}

func TestPathContains(t *testing.T) {
	c := Path("meta", "summary", PathContains, WithAlias("summary"))

	sql, params := compileOne(t, c, "summary", "go")
	assert.Equal(t, "meta #>> $1 ILIKE $2", sql)
	require.Len(t, params, 2)
	assert.Equal(t, "%go%", params[1])
}

func TestPathInvalidOperator(t *testing.T) {
	c := Path("meta", "x", PathOp("near"), WithAlias("x"))

	_, err := c.BuildFilter(articleModel())
	require.Error(t, err)
	assert.ErrorIs(t, err, filterdeps.ErrConfiguration)
}

func TestPathEmptyPath(t *testing.T) {
	c := Path("meta", " ", PathEquals, WithAlias("x"))

	_, err := c.BuildFilter(articleModel())
	require.Error(t, err)
	assert.ErrorIs(t, err, filterdeps.ErrConfiguration)
}
