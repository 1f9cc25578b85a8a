package querycomp

import (
	"github.com/arborq/arborq/internal/expr"
	"github.com/arborq/arborq/internal/queryargs"
	"github.com/arborq/arborq/internal/queryerr"
)

// operands holds the role-identified parts of a relational node. Operand
// order in the source is not significant: the field is found by being a
// Field term and the value by being a Literal term, wherever they sit.
type operands struct {
	field expr.Field
	lit   *expr.Literal
}

// splitOperands identifies the field and value operands of rel. A nested
// node in operand position, a missing field, or duplicate operands of the
// same role all reject the node.
func splitOperands(rel *expr.Relational) (operands, error) {
	var ops operands
	var haveField bool
	for _, t := range rel.Terms {
		switch term := t.(type) {
		case expr.Field:
			if haveField {
				return ops, queryerr.NewUnsupportedExpression(rel, "comparison has more than one field operand")
			}
			ops.field = term
			haveField = true
		case *expr.Literal:
			if ops.lit != nil {
				return ops, queryerr.NewUnsupportedExpression(rel, "comparison has more than one value operand")
			}
			ops.lit = term
		default:
			return ops, queryerr.NewUnsupportedExpression(rel, "comparison operand is not a field or value term")
		}
	}
	if !haveField {
		return ops, queryerr.NewUnsupportedExpression(rel, "comparison has no field operand")
	}
	return ops, nil
}

// scalarValue normalizes a literal to an output value: a canonical string
// for scalars, an element-wise canonical list for lists.
func scalarValue(v expr.Value) (queryargs.Value, error) {
	if list, ok := v.(expr.List); ok {
		out := make(queryargs.List, len(list))
		for i, elem := range list {
			s, err := expr.Canon(elem)
			if err != nil {
				return nil, err
			}
			out[i] = queryargs.String(s)
		}
		return out, nil
	}
	s, err := expr.Canon(v)
	if err != nil {
		return nil, err
	}
	return queryargs.String(s), nil
}
