package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborq/arborq/internal/queryerr"
)

func TestCanon_Scalars(t *testing.T) {
	testCases := []struct {
		name string
		in   Value
		want string
	}{
		{"string", String("news"), "news"},
		{"int", Int(42), "42"},
		{"negative int", Int(-7), "-7"},
		{"true is truthy string", Bool(true), "1"},
		{"false is empty string", Bool(false), ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Canon(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCanon_NormalizesToNFC(t *testing.T) {
	// "é" as combining sequence (e + U+0301) must normalize to the
	// precomposed form.
	got, err := Canon(String("café"))
	require.NoError(t, err)
	assert.Equal(t, "café", got)
}

func TestCanon_RejectsNonScalars(t *testing.T) {
	_, err := Canon(List{String("a")})
	require.Error(t, err)
	assert.True(t, queryerr.IsInvalidValue(err))

	_, err = Canon(nil)
	require.Error(t, err)
	assert.True(t, queryerr.IsInvalidValue(err))
}

func TestSlug(t *testing.T) {
	got, err := Slug(String("Breaking News!"))
	require.NoError(t, err)
	assert.Equal(t, "breaking-news", got)

	// Numeric values keep their canonical form.
	got, err = Slug(Int(12))
	require.NoError(t, err)
	assert.Equal(t, "12", got)

	_, err = Slug(List{})
	require.Error(t, err)
	assert.True(t, queryerr.IsInvalidValue(err))
}

func TestIsScalar(t *testing.T) {
	assert.True(t, IsScalar(String("x")))
	assert.True(t, IsScalar(Int(1)))
	assert.True(t, IsScalar(Bool(false)))
	assert.False(t, IsScalar(List{}))
	assert.False(t, IsScalar(nil))
}

func TestParseField(t *testing.T) {
	testCases := []struct {
		in   string
		want Field
	}{
		{"author", Field{Name: "author"}},
		{"meta.views", Field{Entity: EntityMeta, Name: "views"}},
		{"tax.category", Field{Entity: EntityTax, Name: "category"}},
		{"release.year", Field{Name: "release.year"}},
		{"meta.", Field{Name: "meta."}},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got := ParseField(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.in, got.String())
		})
	}
}
