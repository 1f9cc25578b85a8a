package expr

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Expression document forms:
//
//	and:                      # logical group
//	  - {field: author, op: eq, value: admin}
//	  - or:
//	      - {field: meta.color, value: blue}
//	      - {field: meta.color, value: red}
//	not:                      # negation wrapper
//	  {field: tax.category, op: in, value: [news, sports]}
//
// A comparison map takes field, op (default eq), value, and negated. The
// decoder is shared by the YAML surface and the CUE definition loader, which
// both materialize documents as plain Go containers first.

// DecodeYAML decodes a YAML expression document into a node tree.
func DecodeYAML(data []byte) (Node, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse expression document: %w", err)
	}
	return DecodeDoc(doc)
}

// DecodeDoc decodes an already-unmarshaled expression document.
func DecodeDoc(doc any) (Node, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expression must be a mapping, got %T", doc)
	}

	if sub, ok := m["not"]; ok {
		if len(m) != 1 {
			return nil, fmt.Errorf("not wrapper takes no sibling keys")
		}
		node, err := DecodeDoc(sub)
		if err != nil {
			return nil, err
		}
		switch n := node.(type) {
		case *Logical:
			n.Negated = !n.Negated
		case *Relational:
			n.Negated = !n.Negated
		}
		return node, nil
	}

	if sub, ok := m["and"]; ok {
		return decodeGroup(BoolAnd, sub, m)
	}
	if sub, ok := m["or"]; ok {
		return decodeGroup(BoolOr, sub, m)
	}
	return decodeComparison(m)
}

func decodeGroup(op BoolOp, sub any, m map[string]any) (Node, error) {
	list, ok := sub.([]any)
	if !ok {
		return nil, fmt.Errorf("%s group must hold a sequence, got %T", op, sub)
	}
	negated, err := decodeNegated(m)
	if err != nil {
		return nil, err
	}
	for key := range m {
		if key != string(op) && key != "negated" {
			return nil, fmt.Errorf("unexpected key %q in %s group", key, op)
		}
	}

	group := &Logical{Op: op, Negated: negated}
	for i, elem := range list {
		child, err := DecodeDoc(elem)
		if err != nil {
			return nil, fmt.Errorf("%s group term %d: %w", op, i, err)
		}
		group.Terms = append(group.Terms, child)
	}
	return group, nil
}

func decodeComparison(m map[string]any) (Node, error) {
	for key := range m {
		switch key {
		case "field", "op", "value", "negated":
		default:
			return nil, fmt.Errorf("unexpected key %q in comparison", key)
		}
	}

	rawField, ok := m["field"]
	if !ok {
		return nil, fmt.Errorf("comparison requires a field")
	}
	fieldName, ok := rawField.(string)
	if !ok {
		return nil, fmt.Errorf("comparison field must be a string, got %T", rawField)
	}

	op := CmpEquals
	if rawOp, ok := m["op"]; ok {
		opName, ok := rawOp.(string)
		if !ok {
			return nil, fmt.Errorf("comparison op must be a string, got %T", rawOp)
		}
		op = CmpOp(opName)
	}
	negated, err := decodeNegated(m)
	if err != nil {
		return nil, err
	}

	rel := &Relational{Op: op, Negated: negated, Terms: []Term{ParseField(fieldName)}}
	if rawValue, ok := m["value"]; ok {
		val, err := DecodeValue(rawValue)
		if err != nil {
			return nil, fmt.Errorf("comparison on %q: %w", fieldName, err)
		}
		rel.Terms = append(rel.Terms, &Literal{Val: val})
	}
	return rel, nil
}

func decodeNegated(m map[string]any) (bool, error) {
	raw, ok := m["negated"]
	if !ok {
		return false, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("negated must be a boolean, got %T", raw)
	}
	return b, nil
}

// DecodeValue converts an unmarshaled document value into a Value. Floats
// are rejected: the value model is deliberately float-free.
func DecodeValue(raw any) (Value, error) {
	switch v := raw.(type) {
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(v), nil
	case int64:
		return Int(v), nil
	case uint64:
		if v > 1<<62 {
			return nil, fmt.Errorf("integer value %d out of range", v)
		}
		return Int(v), nil
	case []any:
		list := make(List, len(v))
		for i, elem := range v {
			val, err := DecodeValue(elem)
			if err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
			list[i] = val
		}
		return list, nil
	case float64, float32:
		return nil, fmt.Errorf("float values are not supported: %v", v)
	default:
		return nil, fmt.Errorf("unsupported value type %T", raw)
	}
}
