package orderby

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/filterdeps-go/filterdeps"
	"github.com/krew-solutions/filterdeps-go/filterdeps/schema"
)

func postModel() *schema.Model {
	return schema.New("Post", "posts",
		schema.WithColumn("id", schema.KindInt),
		schema.WithColumn("title", schema.KindString),
		schema.WithColumn("view_count", schema.KindInt),
		schema.WithColumn("created_at", schema.KindTime),
	)
}

func TestResolveSingleField(t *testing.T) {
	ob, err := New(postModel())
	require.NoError(t, err)

	ords, err := ob.Resolve("title")
	require.NoError(t, err)
	assert.Equal(t, []Ordering{{Field: "title"}, {Field: "id"}}, ords)
}

func TestResolveDescendingPrefix(t *testing.T) {
	ob, err := New(postModel())
	require.NoError(t, err)

	ords, err := ob.Resolve("-created_at,view_count")
	require.NoError(t, err)
	assert.Equal(t, []Ordering{
		{Field: "created_at", Desc: true},
		{Field: "view_count"},
		{Field: "id"},
	}, ords)
}

func TestResolveRejectsUnknownField(t *testing.T) {
	ob, err := New(postModel())
	require.NoError(t, err)

	_, err = ob.Resolve("password")
	require.Error(t, err)
	assert.ErrorIs(t, err, filterdeps.ErrInvalidValue)
	assert.Contains(t, err.Error(), "password")
}

func TestResolveDefaultWhenAbsent(t *testing.T) {
	ob, err := New(postModel(), WithDefault("-created_at"))
	require.NoError(t, err)

	for _, value := range []any{nil, "", "  "} {
		ords, err := ob.Resolve(value)
		require.NoError(t, err)
		assert.Equal(t, []Ordering{
			{Field: "created_at", Desc: true},
			{Field: "id"},
		}, ords)
	}
}

func TestResolveNoDefaultYieldsTieBreakerOnly(t *testing.T) {
	ob, err := New(postModel())
	require.NoError(t, err)

	ords, err := ob.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, []Ordering{{Field: "id"}}, ords)
}

func TestTieBreakerNotDuplicated(t *testing.T) {
	ob, err := New(postModel())
	require.NoError(t, err)

	ords, err := ob.Resolve("-id,title")
	require.NoError(t, err)
	assert.Equal(t, []Ordering{
		{Field: "id", Desc: true},
		{Field: "title"},
	}, ords)
}

func TestTieBreakerDisabled(t *testing.T) {
	ob, err := New(postModel(), WithTieBreaker(""))
	require.NoError(t, err)

	ords, err := ob.Resolve("title")
	require.NoError(t, err)
	assert.Equal(t, []Ordering{{Field: "title"}}, ords)
}

func TestWhitelistRestriction(t *testing.T) {
	ob, err := New(postModel(), WithColumns("title", "created_at"))
	require.NoError(t, err)

	_, err = ob.Resolve("view_count")
	require.Error(t, err)
	assert.ErrorIs(t, err, filterdeps.ErrInvalidValue)
}

func TestWhitelistValidatedAtConstruction(t *testing.T) {
	_, err := New(postModel(), WithColumns("title", "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, filterdeps.ErrConfiguration)
}

func TestInvalidDefaultRejectedAtConstruction(t *testing.T) {
	_, err := New(postModel(), WithDefault("-nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, filterdeps.ErrConfiguration)
}

func TestInvalidTieBreakerRejected(t *testing.T) {
	_, err := New(postModel(), WithTieBreaker("uuid"))
	require.Error(t, err)
	assert.ErrorIs(t, err, filterdeps.ErrConfiguration)
}

func TestParamMetadata(t *testing.T) {
	ob, err := New(postModel(), WithDefault("-created_at"), WithParam("sort"))
	require.NoError(t, err)

	p := ob.Param()
	assert.Equal(t, "sort", p.Name)
	assert.Equal(t, filterdeps.TypeString, p.Type)
	assert.Equal(t, "-created_at", p.Default)
	assert.Contains(t, p.Description, "created_at")
}
