package querycomp

import (
	"github.com/arborq/arborq/internal/expr"
	"github.com/arborq/arborq/internal/queryerr"
)

// Context resolves comparison types to operator tokens for one output
// shape. Each shape speaks its own vocabulary: the taxonomy shape has no
// notion of less-than, the plain shape has no EXISTS, and the attribute
// shape understands BETWEEN.
//
// Negation never prefixes "NOT": it selects the comparison's semantic
// opposite from the table (equals becomes not-equals, membership becomes
// exclusion). Negating a type with no defined opposite fails, as does
// resolving a type with no entry at all.
type Context struct {
	name     string
	tokens   map[expr.CmpOp]string
	opposite map[expr.CmpOp]expr.CmpOp
	def      string
}

// Name identifies the context in diagnostics.
func (c *Context) Name() string { return c.name }

// Resolve maps op plus the negation flag to the context's operator token.
// Fails with an UNSUPPORTED_OPERATOR classification error when the type has
// no entry, or is negated and has no defined opposite.
func (c *Context) Resolve(op expr.CmpOp, negated bool) (string, error) {
	if negated {
		opp, ok := c.opposite[op]
		if !ok {
			return "", queryerr.NewUnsupportedOperator(c.name, op, negated)
		}
		op = opp
	}
	tok, ok := c.tokens[op]
	if !ok {
		return "", queryerr.NewUnsupportedOperator(c.name, op, negated)
	}
	return tok, nil
}

// IsDefault reports whether tok is the context's implicit default. Leaf
// compilers omit the operator entry exactly when this holds.
func (c *Context) IsDefault(tok string) bool { return tok == c.def }

// pairs builds a symmetric opposite table from opposite pairs.
func pairs(ops ...[2]expr.CmpOp) map[expr.CmpOp]expr.CmpOp {
	m := make(map[expr.CmpOp]expr.CmpOp, len(ops)*2)
	for _, p := range ops {
		m[p[0]] = p[1]
		m[p[1]] = p[0]
	}
	return m
}

// Compare resolves operators for the plain compare shape.
var Compare = &Context{
	name: "compare",
	tokens: map[expr.CmpOp]string{
		expr.CmpEquals:    "=",
		expr.CmpNotEquals: "!=",
		expr.CmpIn:        "IN",
		expr.CmpNotIn:     "NOT IN",
		expr.CmpGreater:   ">",
		expr.CmpGreaterEq: ">=",
		expr.CmpLess:      "<",
		expr.CmpLessEq:    "<=",
		expr.CmpLike:      "LIKE",
		expr.CmpNotLike:   "NOT LIKE",
	},
	opposite: pairs(
		[2]expr.CmpOp{expr.CmpEquals, expr.CmpNotEquals},
		[2]expr.CmpOp{expr.CmpIn, expr.CmpNotIn},
		[2]expr.CmpOp{expr.CmpGreater, expr.CmpLessEq},
		[2]expr.CmpOp{expr.CmpLess, expr.CmpGreaterEq},
		[2]expr.CmpOp{expr.CmpLike, expr.CmpNotLike},
	),
	def: "=",
}

// Meta resolves operators for the attribute compare shape.
var Meta = &Context{
	name: "meta",
	tokens: map[expr.CmpOp]string{
		expr.CmpEquals:     "=",
		expr.CmpNotEquals:  "!=",
		expr.CmpIn:         "IN",
		expr.CmpNotIn:      "NOT IN",
		expr.CmpGreater:    ">",
		expr.CmpGreaterEq:  ">=",
		expr.CmpLess:       "<",
		expr.CmpLessEq:     "<=",
		expr.CmpLike:       "LIKE",
		expr.CmpNotLike:    "NOT LIKE",
		expr.CmpBetween:    "BETWEEN",
		expr.CmpNotBetween: "NOT BETWEEN",
		expr.CmpExists:     "EXISTS",
		expr.CmpNotExists:  "NOT EXISTS",
	},
	opposite: pairs(
		[2]expr.CmpOp{expr.CmpEquals, expr.CmpNotEquals},
		[2]expr.CmpOp{expr.CmpIn, expr.CmpNotIn},
		[2]expr.CmpOp{expr.CmpGreater, expr.CmpLessEq},
		[2]expr.CmpOp{expr.CmpLess, expr.CmpGreaterEq},
		[2]expr.CmpOp{expr.CmpLike, expr.CmpNotLike},
		[2]expr.CmpOp{expr.CmpBetween, expr.CmpNotBetween},
		[2]expr.CmpOp{expr.CmpExists, expr.CmpNotExists},
	),
	def: "=",
}

// Tax resolves operators for the taxonomy membership shape. Equality is
// defined as membership here: equals resolves to IN, and equals under
// negation to NOT IN (membership exclusion, not a generic not-equal).
var Tax = &Context{
	name: "taxonomy",
	tokens: map[expr.CmpOp]string{
		expr.CmpEquals:    "IN",
		expr.CmpNotEquals: "NOT IN",
		expr.CmpIn:        "IN",
		expr.CmpNotIn:     "NOT IN",
		expr.CmpAll:       "AND",
		expr.CmpExists:    "EXISTS",
		expr.CmpNotExists: "NOT EXISTS",
	},
	opposite: pairs(
		[2]expr.CmpOp{expr.CmpEquals, expr.CmpNotEquals},
		[2]expr.CmpOp{expr.CmpIn, expr.CmpNotIn},
		[2]expr.CmpOp{expr.CmpExists, expr.CmpNotExists},
	),
	def: "IN",
}

// combinatorTokens maps logical combinators to relation block tokens.
var combinatorTokens = map[expr.BoolOp]string{
	expr.BoolAnd: "AND",
	expr.BoolOr:  "OR",
}

// combinatorOpposite flips the combinator under negation.
var combinatorOpposite = map[expr.BoolOp]expr.BoolOp{
	expr.BoolAnd: expr.BoolOr,
	expr.BoolOr:  expr.BoolAnd,
}

// ResolveCombinator maps a logical node's combinator plus negation flag to
// the relation block token. An unknown combinator fails with an
// UNSUPPORTED_OPERATOR classification error.
func ResolveCombinator(op expr.BoolOp, negated bool) (string, error) {
	if negated {
		opp, ok := combinatorOpposite[op]
		if !ok {
			return "", queryerr.NewUnsupportedOperator("relation", op, negated)
		}
		op = opp
	}
	tok, ok := combinatorTokens[op]
	if !ok {
		return "", queryerr.NewUnsupportedOperator("relation", op, negated)
	}
	return tok, nil
}
