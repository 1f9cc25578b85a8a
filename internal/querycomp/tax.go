package querycomp

import (
	"fmt"

	"github.com/arborq/arborq/internal/expr"
	"github.com/arborq/arborq/internal/queryargs"
	"github.com/arborq/arborq/internal/queryerr"
)

// Term selector fields understood by the target system's taxonomy queries.
const (
	taxFieldTermID = "term_id"
	taxFieldSlug   = "slug"
)

// CompileTaxCompare compiles a relational node into a taxonomy membership
// comparison: {taxonomy: <name>, field: <selector>, terms: [...], operator:
// <op>}. The operator entry is omitted when the resolved token is the
// default (IN).
//
// The field operand names the taxonomy, either tax-qualified
// (tax.category) or bare; attribute-qualified fields reject the node. The
// term selector is derived from the identifiers: an all-integer operand
// selects by term id, anything else by slug, with string identifiers
// reduced to slug form.
//
// Existence checks take no term operand and emit only {taxonomy, operator}.
func CompileTaxCompare(rel *expr.Relational) (*queryargs.Args, error) {
	ops, err := splitOperands(rel)
	if err != nil {
		return nil, err
	}
	if ops.field.Entity == expr.EntityMeta {
		return nil, queryerr.NewUnsupportedExpression(rel,
			fmt.Sprintf("field %q is not a taxonomy name", ops.field))
	}
	tok, err := Tax.Resolve(rel.Op, rel.Negated)
	if err != nil {
		return nil, queryerr.NewUnsupportedExpression(rel,
			fmt.Sprintf("comparison on %q has no taxonomy operator", ops.field), err)
	}

	out := queryargs.New()
	out.Set("taxonomy", queryargs.String(ops.field.Name))

	if tok == "EXISTS" || tok == "NOT EXISTS" {
		if ops.lit != nil {
			return nil, queryerr.NewUnsupportedExpression(rel,
				fmt.Sprintf("existence check on %q takes no term operand", ops.field))
		}
		out.Set("operator", queryargs.String(tok))
		return out, nil
	}

	if ops.lit == nil {
		return nil, queryerr.NewUnsupportedExpression(rel,
			fmt.Sprintf("membership check on %q has no term operand", ops.field))
	}
	selector, terms, err := taxTerms(ops.lit.Val)
	if err != nil {
		return nil, queryerr.NewUnsupportedExpression(rel,
			fmt.Sprintf("terms for %q cannot be compiled", ops.field), err)
	}

	out.Set("field", queryargs.String(selector))
	out.Set("terms", terms)
	if !Tax.IsDefault(tok) {
		out.Set("operator", queryargs.String(tok))
	}
	return out, nil
}

// taxTerms flattens the term operand into a one-or-many identifier list and
// picks the selector field. Integer identifiers address terms by id; any
// other identifier kind switches the whole comparison to slug lookup.
func taxTerms(v expr.Value) (string, queryargs.List, error) {
	var idents []expr.Value
	if list, ok := v.(expr.List); ok {
		if len(list) == 0 {
			return "", nil, queryerr.NewInvalidValue(v, "empty term list")
		}
		idents = list
	} else {
		idents = []expr.Value{v}
	}

	allInts := true
	for _, ident := range idents {
		if _, ok := ident.(expr.Int); !ok {
			allInts = false
			break
		}
	}

	terms := make(queryargs.List, len(idents))
	if allInts {
		for i, ident := range idents {
			terms[i] = queryargs.Int(ident.(expr.Int))
		}
		return taxFieldTermID, terms, nil
	}
	for i, ident := range idents {
		s, err := expr.Slug(ident)
		if err != nil {
			return "", nil, err
		}
		terms[i] = queryargs.String(s)
	}
	return taxFieldSlug, terms, nil
}
