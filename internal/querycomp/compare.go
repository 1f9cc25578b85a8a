package querycomp

import (
	"fmt"

	"github.com/arborq/arborq/internal/expr"
	"github.com/arborq/arborq/internal/queryargs"
	"github.com/arborq/arborq/internal/queryerr"
)

// CompilePlainCompare compiles a relational node into a direct query
// variable entry: {<field>: <value>}, plus a "compare" entry when the
// resolved operator is not the context default.
//
// The node must compare an unqualified field to a literal value. Qualified
// fields (meta.*, tax.*) belong to the other shapes and reject the node so
// strategy dispatch can move on. List values are only legal for membership
// operators.
func CompilePlainCompare(rel *expr.Relational) (*queryargs.Args, error) {
	ops, err := splitOperands(rel)
	if err != nil {
		return nil, err
	}
	if ops.field.Entity != expr.EntityNone {
		return nil, queryerr.NewUnsupportedExpression(rel,
			fmt.Sprintf("field %q is not a direct query variable", ops.field))
	}
	tok, err := Compare.Resolve(rel.Op, rel.Negated)
	if err != nil {
		return nil, queryerr.NewUnsupportedExpression(rel,
			fmt.Sprintf("comparison on %q has no plain compare operator", ops.field), err)
	}
	if ops.lit == nil {
		return nil, queryerr.NewUnsupportedExpression(rel,
			fmt.Sprintf("comparison on %q has no value operand", ops.field))
	}

	val, err := compareValue(ops.lit.Val, tok)
	if err != nil {
		return nil, queryerr.NewUnsupportedExpression(rel,
			fmt.Sprintf("value for %q cannot be compiled", ops.field), err)
	}

	out := queryargs.New()
	out.Set(ops.field.Name, val)
	if !Compare.IsDefault(tok) {
		out.Set("compare", queryargs.String(tok))
	}
	return out, nil
}

// compareValue normalizes the plain compare operand. Lists only pair with
// membership tokens; every other token takes a scalar.
func compareValue(v expr.Value, tok string) (queryargs.Value, error) {
	if _, ok := v.(expr.List); ok && tok != "IN" && tok != "NOT IN" {
		return nil, queryerr.NewInvalidValue(v, "operator %s takes a scalar value", tok)
	}
	return scalarValue(v)
}
