package querycomp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborq/arborq/internal/expr"
	"github.com/arborq/arborq/internal/queryargs"
	"github.com/arborq/arborq/internal/queryerr"
)

func TestPlainCompare_DefaultOperatorOmitted(t *testing.T) {
	out, err := CompilePlainCompare(expr.Cmp(expr.CmpEquals, "author", expr.String("admin")))
	require.NoError(t, err)

	val, ok := out.Get("author")
	require.True(t, ok)
	assert.Equal(t, queryargs.String("admin"), val)

	_, ok = out.Get("compare")
	assert.False(t, ok, "default operator must not be emitted")
}

func TestPlainCompare_NonDefaultOperator(t *testing.T) {
	out, err := CompilePlainCompare(expr.Cmp(expr.CmpNotEquals, "status", expr.String("draft")))
	require.NoError(t, err)

	val, ok := out.Get("compare")
	require.True(t, ok)
	assert.Equal(t, queryargs.String("!="), val)
}

func TestPlainCompare_NegatedEquals(t *testing.T) {
	out, err := CompilePlainCompare(expr.NotCmp(expr.CmpEquals, "status", expr.String("draft")))
	require.NoError(t, err)

	val, ok := out.Get("compare")
	require.True(t, ok)
	assert.Equal(t, queryargs.String("!="), val)
}

func TestPlainCompare_MembershipList(t *testing.T) {
	out, err := CompilePlainCompare(expr.Cmp(expr.CmpIn, "status",
		expr.List{expr.String("publish"), expr.String("draft")}))
	require.NoError(t, err)

	val, ok := out.Get("status")
	require.True(t, ok)
	assert.Equal(t, queryargs.List{queryargs.String("publish"), queryargs.String("draft")}, val)

	op, ok := out.Get("compare")
	require.True(t, ok)
	assert.Equal(t, queryargs.String("IN"), op)
}

func TestPlainCompare_ListRejectedForScalarOperator(t *testing.T) {
	_, err := CompilePlainCompare(expr.Cmp(expr.CmpGreater, "year",
		expr.List{expr.Int(2020), expr.Int(2021)}))
	require.Error(t, err)
	assert.True(t, queryerr.IsUnsupportedExpression(err))
	assert.True(t, queryerr.IsInvalidValue(err), "value failure must stay reachable as a cause")
}

func TestPlainCompare_QualifiedFieldRejected(t *testing.T) {
	for _, field := range []string{"meta.views", "tax.category"} {
		_, err := CompilePlainCompare(expr.Cmp(expr.CmpEquals, field, expr.String("x")))
		require.Error(t, err, field)
		assert.True(t, queryerr.IsUnsupportedExpression(err))
	}
}

func TestPlainCompare_OperandOrderIndependent(t *testing.T) {
	rel := &expr.Relational{
		Op: expr.CmpEquals,
		Terms: []expr.Term{
			&expr.Literal{Val: expr.String("admin")},
			expr.ParseField("author"),
		},
	}
	out, err := CompilePlainCompare(rel)
	require.NoError(t, err)

	val, ok := out.Get("author")
	require.True(t, ok)
	assert.Equal(t, queryargs.String("admin"), val)
}

func TestPlainCompare_StructuralRejections(t *testing.T) {
	testCases := []struct {
		name string
		rel  *expr.Relational
	}{
		{
			name: "missing value operand",
			rel:  &expr.Relational{Op: expr.CmpEquals, Terms: []expr.Term{expr.ParseField("author")}},
		},
		{
			name: "missing field operand",
			rel:  &expr.Relational{Op: expr.CmpEquals, Terms: []expr.Term{&expr.Literal{Val: expr.String("x")}}},
		},
		{
			name: "nested node operand",
			rel: &expr.Relational{Op: expr.CmpEquals, Terms: []expr.Term{
				expr.ParseField("author"),
				expr.And(),
			}},
		},
		{
			name: "duplicate field operand",
			rel: &expr.Relational{Op: expr.CmpEquals, Terms: []expr.Term{
				expr.ParseField("author"),
				expr.ParseField("status"),
			}},
		},
		{
			name: "unsupported operator",
			rel:  expr.Cmp(expr.CmpExists, "author", nil),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CompilePlainCompare(tc.rel)
			require.Error(t, err)
			assert.True(t, queryerr.IsUnsupportedExpression(err))
		})
	}
}
