package expr

import (
	"strconv"

	gosimpleslug "github.com/gosimple/slug"
	"golang.org/x/text/unicode/norm"

	"github.com/arborq/arborq/internal/queryerr"
)

// Value is a sealed interface representing literal value types.
// Only String, Int, Bool, and List implement it. There is no float kind.
type Value interface {
	exprValue()
}

// String is a text value. Canonical form is NFC-normalized.
type String string

func (String) exprValue() {}

// Int is an integer value. Always int64.
type Int int64

func (Int) exprValue() {}

// Bool is a boolean value. Canonical form follows the target system's
// truthy-string convention: "1" for true, "" for false.
type Bool bool

func (Bool) exprValue() {}

// List is an ordered sequence of values. Lists only appear as the operand of
// membership comparisons; they are not scalars and Canon rejects them.
type List []Value

func (List) exprValue() {}

// Canon converts a scalar value to its canonical string form.
//
// Strings are NFC-normalized so that visually identical keys compare equal
// in the target system. Lists and nil fail with an invalid-value error - the
// caller decides whether list operands are legal for its operator.
func Canon(v Value) (string, error) {
	switch val := v.(type) {
	case String:
		return norm.NFC.String(string(val)), nil
	case Int:
		return strconv.FormatInt(int64(val), 10), nil
	case Bool:
		if val {
			return "1", nil
		}
		return "", nil
	case List:
		return "", queryerr.NewInvalidValue(v, "list is not a scalar value")
	case nil:
		return "", queryerr.NewInvalidValue(v, "missing value")
	default:
		return "", queryerr.NewInvalidValue(v, "unsupported value kind %T", v)
	}
}

// Slug converts a scalar value to its slug form, used for taxonomy term
// lookup by slug. Numeric values keep their canonical form unchanged.
func Slug(v Value) (string, error) {
	s, err := Canon(v)
	if err != nil {
		return "", err
	}
	switch v.(type) {
	case String:
		return gosimpleslug.Make(s), nil
	default:
		return s, nil
	}
}

// IsScalar reports whether v has a canonical scalar string form.
func IsScalar(v Value) bool {
	switch v.(type) {
	case String, Int, Bool:
		return true
	default:
		return false
	}
}
