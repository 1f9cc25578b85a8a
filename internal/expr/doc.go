// Package expr defines the input expression tree consumed by the query
// compiler.
//
// An expression is a tree of logical nodes (AND/OR groups) and relational
// nodes (field-to-value comparisons). Both node kinds carry a negation flag
// that inverts their meaning. Relational nodes hold operand terms: a field
// reference and a literal value, in either order.
//
// SEALED INTERFACES:
//
// Node and Term are sealed interfaces using the marker method pattern. Only
// types in this package implement them, which enables exhaustive type
// switches in the compiler:
//
//	switch n := node.(type) {
//	case *Logical:
//	    // AND/OR group
//	case *Relational:
//	    // comparison
//	}
//
// Nested nodes are themselves terms, so a logical node's Terms slice can mix
// sub-groups and comparisons. Field and Literal are the leaf terms that only
// appear as operands of relational nodes.
//
// VALUES:
//
// Literal values use the sealed Value interface (String, Int, Bool, List).
// There is no float value kind: the target system compares canonical string
// forms, and float formatting is not stable enough to round-trip through
// them. Canon converts a scalar value to its canonical string form; Slug
// additionally reduces it to a URL-safe slug for taxonomy term lookup.
//
// The compiler treats the tree as read-only. Decoding helpers (DecodeYAML,
// DecodeDoc) build trees from configuration documents, but the compiler
// itself only consumes the node contract.
package expr
