package querycomp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborq/arborq/internal/expr"
	"github.com/arborq/arborq/internal/queryargs"
	"github.com/arborq/arborq/internal/queryerr"
)

func TestCompile_RootMustBeConjunction(t *testing.T) {
	c := New()

	testCases := []struct {
		name string
		root expr.Node
	}{
		{"disjunction root", expr.Or(expr.Cmp(expr.CmpEquals, "author", expr.String("admin")))},
		{"relational root", expr.Cmp(expr.CmpEquals, "author", expr.String("admin"))},
		{"negated conjunction root", &expr.Logical{Op: expr.BoolAnd, Negated: true}},
		{"nil root", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := c.Compile(tc.root)
			require.Error(t, err)
			assert.Nil(t, out, "no partial output on root rejection")
			assert.True(t, queryerr.IsUnsupportedExpression(err))
		})
	}
}

func TestCompile_MixedShapesAcrossSiblings(t *testing.T) {
	root := expr.And(
		expr.And(expr.Cmp(expr.CmpIn, "tax.category", expr.List{expr.String("news")})),
		expr.Cmp(expr.CmpEquals, "author", expr.String("admin")),
	)

	out, err := New().Compile(root)
	require.NoError(t, err)

	tax, ok := out.Get(KeyTaxQuery)
	require.True(t, ok, "tax_query entry present")
	block, ok := tax.(*queryargs.Relation)
	require.True(t, ok)
	assert.Equal(t, "AND", block.Op)

	author, ok := out.Get("author")
	require.True(t, ok, "plain compare entry present alongside tax_query")
	assert.Equal(t, queryargs.String("admin"), author)
}

func TestCompile_MetaStrategyWinsForAttributeGroups(t *testing.T) {
	root := expr.And(
		expr.Or(
			expr.Cmp(expr.CmpEquals, "meta.color", expr.String("blue")),
			expr.Cmp(expr.CmpEquals, "meta.color", expr.String("red")),
		),
	)

	out, err := New().Compile(root)
	require.NoError(t, err)

	_, ok := out.Get(KeyMetaQuery)
	assert.True(t, ok)
	_, ok = out.Get(KeyTaxQuery)
	assert.False(t, ok)
}

func TestCompile_UnqualifiedGroupFallsThroughToTaxonomy(t *testing.T) {
	// The attribute strategy rejects unqualified fields, so a group of bare
	// membership comparisons classifies as a taxonomy relation.
	root := expr.And(
		expr.Or(
			expr.Cmp(expr.CmpIn, "category", expr.List{expr.String("news")}),
			expr.Cmp(expr.CmpIn, "post_tag", expr.List{expr.String("go")}),
		),
	)

	out, err := New().Compile(root)
	require.NoError(t, err)

	tax, ok := out.Get(KeyTaxQuery)
	require.True(t, ok)
	assert.Equal(t, "OR", tax.(*queryargs.Relation).Op)
}

func TestCompile_SiblingMetaOverwrites(t *testing.T) {
	root := expr.And(
		expr.And(expr.Cmp(expr.CmpEquals, "meta.color", expr.String("blue"))),
		expr.And(expr.Cmp(expr.CmpEquals, "meta.size", expr.String("large"))),
	)

	out, err := New().Compile(root)
	require.NoError(t, err)

	// Last sibling wins; the key keeps its original position.
	require.Equal(t, []string{KeyMetaQuery}, out.Keys())
	block := mustGetRelation(t, out, KeyMetaQuery)
	require.Len(t, block.Children, 1)
	key, _ := block.Children[0].(*queryargs.Args).Get("key")
	assert.Equal(t, queryargs.String("size"), key)
}

func TestCompile_TermMatchingNoStrategyAggregatesCauses(t *testing.T) {
	// A group whose child fails both relation modes: the bare field rejects
	// the attribute shape and the operator rejects the taxonomy shape. The
	// group itself rejects the plain compare shape.
	root := expr.And(
		expr.Or(expr.Cmp(expr.CmpGreater, "year", expr.Int(2020))),
	)

	out, err := New().Compile(root)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, queryerr.IsUnsupportedExpression(err))

	var ce *queryerr.ClassifyError
	require.ErrorAs(t, err, &ce)
	joined, ok := ce.Unwrap().(interface{ Unwrap() []error })
	require.True(t, ok, "all strategy causes must be aggregated")
	assert.Len(t, joined.Unwrap(), 3)
}

func TestCompile_RawRootTermIsHardFailure(t *testing.T) {
	root := &expr.Logical{
		Op: expr.BoolAnd,
		Terms: []expr.Term{
			expr.ParseField("author"),
		},
	}

	_, err := New().Compile(root)
	require.Error(t, err)
	assert.True(t, queryerr.IsUnsupportedExpression(err))
}

func TestCompile_FailingSiblingProducesNoPartialOutput(t *testing.T) {
	root := expr.And(
		expr.Cmp(expr.CmpEquals, "author", expr.String("admin")),
		expr.Or(expr.Cmp(expr.CmpGreater, "year", expr.Int(2020))),
	)

	out, err := New().Compile(root)
	require.Error(t, err)
	assert.Nil(t, out)
}

func TestCompile_DeterministicAcrossCalls(t *testing.T) {
	root := expr.And(
		expr.And(
			expr.Cmp(expr.CmpGreater, "meta.views", expr.Int(100)),
			expr.Cmp(expr.CmpExists, "meta.featured", nil),
		),
		expr.And(expr.NotCmp(expr.CmpEquals, "tax.category", expr.String("news"))),
		expr.Cmp(expr.CmpEquals, "author", expr.String("admin")),
	)
	c := New()

	first, err := c.Compile(root)
	require.NoError(t, err)
	second, err := c.Compile(root)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestCompile_InputTreeNotMutated(t *testing.T) {
	inner := expr.Cmp(expr.CmpEquals, "meta.color", expr.String("blue"))
	group := expr.Or(inner)
	root := expr.And(group)

	_, err := New().Compile(root)
	require.NoError(t, err)

	assert.Equal(t, expr.BoolOr, group.Op)
	assert.False(t, inner.Negated)
	assert.Len(t, inner.Terms, 2)
}

func TestCompile_TraceRecordsStrategyAttempts(t *testing.T) {
	var events []TraceEvent
	c := New(WithTrace(func(ev TraceEvent) { events = append(events, ev) }))

	root := expr.And(expr.Cmp(expr.CmpEquals, "author", expr.String("admin")))
	_, err := c.Compile(root)
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, "meta_query", events[0].Strategy)
	assert.Error(t, events[0].Err)
	assert.Equal(t, "tax_query", events[1].Strategy)
	assert.Error(t, events[1].Err)
	assert.Equal(t, "compare", events[2].Strategy)
	assert.NoError(t, events[2].Err)
}

func TestCompile_RenderedOutputShape(t *testing.T) {
	root := expr.And(
		expr.And(expr.NotCmp(expr.CmpEquals, "tax.category", expr.String("news"))),
		expr.Cmp(expr.CmpEquals, "author", expr.String("admin")),
	)

	out, err := New().Compile(root)
	require.NoError(t, err)

	rendered, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"tax_query": {
			"relation": "AND",
			"0": {"taxonomy": "category", "field": "slug", "terms": ["news"], "operator": "NOT IN"}
		},
		"author": "admin"
	}`, string(rendered))
}

func mustGetRelation(t *testing.T, args *queryargs.Args, key string) *queryargs.Relation {
	t.Helper()
	val, ok := args.Get(key)
	require.True(t, ok, "missing %s", key)
	block, ok := val.(*queryargs.Relation)
	require.True(t, ok, "%s is not a relation block", key)
	return block
}
