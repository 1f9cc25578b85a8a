package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborq/arborq/internal/expr"
	"github.com/arborq/arborq/internal/queryargs"
	"github.com/arborq/arborq/internal/querycomp"
)

func testRegistry() *MemRegistry {
	return &MemRegistry{
		Tax:  map[string]bool{"category": true, "post_tag": true},
		Meta: map[string]string{"views": "NUMERIC", "color": "CHAR"},
	}
}

func compileTree(t *testing.T, root expr.Node) *queryargs.Args {
	t.Helper()
	out, err := querycomp.New().Compile(root)
	require.NoError(t, err)
	return out
}

func TestValidate_CleanOutput(t *testing.T) {
	root := expr.And(
		expr.And(expr.Cmp(expr.CmpIn, "tax.category", expr.List{expr.String("news")})),
		expr.And(expr.Cmp(expr.CmpGreater, "meta.views", expr.Int(100))),
		expr.Cmp(expr.CmpEquals, "author", expr.String("admin")),
	)

	issues, err := Validate(context.Background(), testRegistry(), compileTree(t, root))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidate_UnknownTaxonomy(t *testing.T) {
	root := expr.And(
		expr.And(expr.Cmp(expr.CmpIn, "tax.genre", expr.List{expr.String("jazz")})),
	)

	issues, err := Validate(context.Background(), testRegistry(), compileTree(t, root))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "taxonomy", issues[0].Kind)
	assert.Equal(t, "genre", issues[0].Name)
}

func TestValidate_UnknownMetaKeyAndCastMismatch(t *testing.T) {
	root := expr.And(
		expr.And(
			expr.Cmp(expr.CmpEquals, "meta.mystery", expr.String("x")),
			expr.Cmp(expr.CmpEquals, "meta.views", expr.String("not-numeric")),
		),
	)

	issues, err := Validate(context.Background(), testRegistry(), compileTree(t, root))
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, "mystery", issues[0].Name)
	assert.Contains(t, issues[0].Message, "not a registered")
	assert.Equal(t, "views", issues[1].Name)
	assert.Contains(t, issues[1].Message, "does not match")
}

func TestValidate_RecursesNestedRelations(t *testing.T) {
	root := expr.And(
		expr.And(
			expr.Cmp(expr.CmpIn, "tax.category", expr.List{expr.String("news")}),
			expr.Or(
				expr.Cmp(expr.CmpIn, "tax.genre", expr.List{expr.String("jazz")}),
				expr.Cmp(expr.CmpIn, "tax.post_tag", expr.List{expr.String("go")}),
			),
		),
	)

	issues, err := Validate(context.Background(), testRegistry(), compileTree(t, root))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "genre", issues[0].Name)
}
