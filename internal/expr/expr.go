package expr

import "strings"

// BoolOp identifies the combinator of a logical node.
type BoolOp string

const (
	BoolAnd BoolOp = "and"
	BoolOr  BoolOp = "or"
)

// CmpOp identifies the comparison of a relational node.
//
// Not every operator is meaningful in every output context; the compiler's
// operator tables decide which are accepted where. CmpAll and the EXISTS
// pair only exist in the taxonomy vocabulary, BETWEEN only in the attribute
// vocabulary.
type CmpOp string

const (
	CmpEquals     CmpOp = "eq"
	CmpNotEquals  CmpOp = "neq"
	CmpIn         CmpOp = "in"
	CmpNotIn      CmpOp = "nin"
	CmpGreater    CmpOp = "gt"
	CmpGreaterEq  CmpOp = "gte"
	CmpLess       CmpOp = "lt"
	CmpLessEq     CmpOp = "lte"
	CmpLike       CmpOp = "like"
	CmpNotLike    CmpOp = "nlike"
	CmpBetween    CmpOp = "between"
	CmpNotBetween CmpOp = "nbetween"
	CmpExists     CmpOp = "exists"
	CmpNotExists  CmpOp = "nexists"
	CmpAll        CmpOp = "all"
)

// Node represents an expression tree node.
//
// This is a sealed interface - only *Logical and *Relational implement it.
type Node interface {
	Term
	exprNode()
}

// Term represents an operand position inside a node.
//
// This is a sealed interface. Nested nodes are terms (a logical group can
// contain sub-groups and comparisons); Field and Literal are the leaf terms
// carried by relational nodes.
type Term interface {
	exprTerm()
}

// Logical is an AND/OR group over child terms.
//
// Negated inverts the combinator meaning (a negated AND reads as OR in the
// compiled output). Terms order is preserved end to end: the target system
// treats child position as an index, not a keyed set.
type Logical struct {
	Op      BoolOp
	Negated bool
	Terms   []Term
}

func (*Logical) exprNode() {}
func (*Logical) exprTerm() {}

// Relational is a single field-to-value comparison.
//
// Terms hold the operands: one Field reference and, for operators that take
// a value, one Literal. Operand order is not significant - the compiler
// identifies operands by role. Negated selects the comparison's semantic
// opposite (equals becomes not-equals, membership becomes exclusion).
type Relational struct {
	Op      CmpOp
	Negated bool
	Terms   []Term
}

func (*Relational) exprNode() {}
func (*Relational) exprTerm() {}

// Entity qualifies which namespace a field reference addresses.
type Entity string

const (
	// EntityNone marks an unqualified field (a direct query variable).
	EntityNone Entity = ""
	// EntityMeta marks an attribute key (meta.<key>).
	EntityMeta Entity = "meta"
	// EntityTax marks a taxonomy name (tax.<taxonomy>).
	EntityTax Entity = "tax"
)

// Field is a field-reference term, optionally qualified with an entity
// namespace. The written forms are "author", "meta.views", "tax.category".
type Field struct {
	Entity Entity
	Name   string
}

func (Field) exprTerm() {}

// String returns the written dotted form of the field reference.
func (f Field) String() string {
	if f.Entity == EntityNone {
		return f.Name
	}
	return string(f.Entity) + "." + f.Name
}

// ParseField parses the written form of a field reference. Unknown prefixes
// are not an error: a dot inside an unqualified field name is legal, so
// "release.year" stays an unqualified field named "release.year".
func ParseField(s string) Field {
	if name, ok := strings.CutPrefix(s, "meta."); ok && name != "" {
		return Field{Entity: EntityMeta, Name: name}
	}
	if name, ok := strings.CutPrefix(s, "tax."); ok && name != "" {
		return Field{Entity: EntityTax, Name: name}
	}
	return Field{Name: s}
}

// Literal is a literal-value term of a relational node.
type Literal struct {
	Val Value
}

func (*Literal) exprTerm() {}

// And builds a logical AND group. Convenience constructor for tests and
// upstream expression builders.
func And(terms ...Term) *Logical {
	return &Logical{Op: BoolAnd, Terms: terms}
}

// Or builds a logical OR group.
func Or(terms ...Term) *Logical {
	return &Logical{Op: BoolOr, Terms: terms}
}

// Cmp builds a relational node comparing field to value.
func Cmp(op CmpOp, field string, value Value) *Relational {
	terms := []Term{ParseField(field)}
	if value != nil {
		terms = append(terms, &Literal{Val: value})
	}
	return &Relational{Op: op, Terms: terms}
}

// NotCmp builds a negated relational node comparing field to value.
func NotCmp(op CmpOp, field string, value Value) *Relational {
	r := Cmp(op, field, value)
	r.Negated = true
	return r
}
