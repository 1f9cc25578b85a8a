package querycomp

import (
	"fmt"

	"github.com/arborq/arborq/internal/expr"
	"github.com/arborq/arborq/internal/queryargs"
	"github.com/arborq/arborq/internal/queryerr"
)

// Mode selects which leaf compiler a relation applies to its relational
// children.
type Mode int

const (
	// ModeMeta compiles relational children as attribute comparisons.
	ModeMeta Mode = iota
	// ModeTax compiles relational children as taxonomy comparisons.
	ModeTax
)

// String implements fmt.Stringer for diagnostics and trace output.
func (m Mode) String() string {
	switch m {
	case ModeMeta:
		return "meta"
	case ModeTax:
		return "tax"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// leaf returns the leaf compiler the mode selects.
func (m Mode) leaf(rel *expr.Relational) (*queryargs.Args, error) {
	switch m {
	case ModeMeta:
		return CompileMetaCompare(rel)
	case ModeTax:
		return CompileTaxCompare(rel)
	default:
		return nil, queryerr.NewUnsupportedExpression(rel, fmt.Sprintf("unknown compilation mode %d", int(m)))
	}
}

// CompileRelation compiles a logical group into a relation block.
//
// The block's combinator token comes from the group's boolean type and
// negation flag; an unsupported combinator is a hard failure with no
// fallback. Children are compiled in input order: nested groups recurse
// with the same mode, relational children go through the mode's leaf
// compiler. Any child failure aborts the whole relation - the returned
// failure names the relation node, with the child failure attached as the
// underlying cause. No partial block is ever produced.
func CompileRelation(group *expr.Logical, mode Mode) (*queryargs.Relation, error) {
	tok, err := ResolveCombinator(group.Op, group.Negated)
	if err != nil {
		return nil, queryerr.NewUnsupportedExpression(group,
			fmt.Sprintf("group combinator cannot form a %s relation", mode), err)
	}

	block := &queryargs.Relation{Op: tok}
	for i, term := range group.Terms {
		var child queryargs.Value
		var cerr error
		switch t := term.(type) {
		case *expr.Logical:
			child, cerr = CompileRelation(t, mode)
		case *expr.Relational:
			child, cerr = mode.leaf(t)
		default:
			cerr = queryerr.NewUnsupportedExpression(term, "relation term is not an expression node")
		}
		if cerr != nil {
			return nil, queryerr.NewUnsupportedExpression(group,
				fmt.Sprintf("term %d does not fit the %s relation shape", i, mode), cerr)
		}
		block.Children = append(block.Children, child)
	}
	return block, nil
}
