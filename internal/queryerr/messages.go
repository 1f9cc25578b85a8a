package queryerr

import "fmt"

// Message templates per failure code. Templates only feed diagnostics;
// nothing in the compiler branches on rendered text.
var messages = map[Code]string{
	CodeUnsupportedOperator:   "operator %v (negated=%v) has no mapping in the %s context",
	CodeUnsupportedExpression: "expression does not match shape: %s",
	CodeInvalidValue:          "value cannot be normalized: %s",
}

// Render formats the message template for code with the given arguments.
// Unknown codes fall back to a generic rendering rather than failing - a
// broken message must never mask the failure it describes.
func Render(code Code, args ...any) string {
	tmpl, ok := messages[code]
	if !ok {
		return fmt.Sprintf("%s: %v", code, args)
	}
	return fmt.Sprintf(tmpl, args...)
}
