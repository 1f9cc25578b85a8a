package querycomp

import (
	"fmt"

	"github.com/arborq/arborq/internal/expr"
	"github.com/arborq/arborq/internal/queryargs"
	"github.com/arborq/arborq/internal/queryerr"
)

// Cast type tags understood by the target system's attribute comparisons.
const (
	castChar    = "CHAR"
	castNumeric = "NUMERIC"
)

// CompileMetaCompare compiles a relational node into an attribute
// comparison: {key: <key>, value: <value>, type: <cast>, compare: <op>}.
// The compare entry is omitted when the resolved operator is the default.
//
// The node must compare a meta-qualified field (meta.<key>). The cast type
// tells the target system how to compare the stored attribute value:
// numeric for Int and Bool operands, character data otherwise.
//
// Existence checks (EXISTS / NOT EXISTS) take no value operand and emit
// only {key, compare}.
func CompileMetaCompare(rel *expr.Relational) (*queryargs.Args, error) {
	ops, err := splitOperands(rel)
	if err != nil {
		return nil, err
	}
	if ops.field.Entity != expr.EntityMeta {
		return nil, queryerr.NewUnsupportedExpression(rel,
			fmt.Sprintf("field %q is not an attribute key", ops.field))
	}
	tok, err := Meta.Resolve(rel.Op, rel.Negated)
	if err != nil {
		return nil, queryerr.NewUnsupportedExpression(rel,
			fmt.Sprintf("comparison on %q has no attribute operator", ops.field), err)
	}

	out := queryargs.New()
	out.Set("key", queryargs.String(ops.field.Name))

	if tok == "EXISTS" || tok == "NOT EXISTS" {
		if ops.lit != nil {
			return nil, queryerr.NewUnsupportedExpression(rel,
				fmt.Sprintf("existence check on %q takes no value operand", ops.field))
		}
		out.Set("compare", queryargs.String(tok))
		return out, nil
	}

	if ops.lit == nil {
		return nil, queryerr.NewUnsupportedExpression(rel,
			fmt.Sprintf("comparison on %q has no value operand", ops.field))
	}
	val, err := metaValue(ops.lit.Val, tok)
	if err != nil {
		return nil, queryerr.NewUnsupportedExpression(rel,
			fmt.Sprintf("value for %q cannot be compiled", ops.field), err)
	}

	out.Set("value", val)
	out.Set("type", queryargs.String(castType(ops.lit.Val)))
	if !Meta.IsDefault(tok) {
		out.Set("compare", queryargs.String(tok))
	}
	return out, nil
}

// metaValue normalizes the attribute operand. Lists pair with the
// membership and range tokens; every other token takes a scalar.
func metaValue(v expr.Value, tok string) (queryargs.Value, error) {
	if _, ok := v.(expr.List); ok {
		switch tok {
		case "IN", "NOT IN", "BETWEEN", "NOT BETWEEN":
		default:
			return nil, queryerr.NewInvalidValue(v, "operator %s takes a scalar value", tok)
		}
	}
	return scalarValue(v)
}

// castType derives the comparison cast from the operand's value kind. A
// list casts numeric only when every element does.
func castType(v expr.Value) string {
	switch val := v.(type) {
	case expr.Int, expr.Bool:
		return castNumeric
	case expr.List:
		if len(val) == 0 {
			return castChar
		}
		for _, elem := range val {
			if castType(elem) != castNumeric {
				return castChar
			}
		}
		return castNumeric
	default:
		return castChar
	}
}
