// Package queryargs defines the compiled output structure handed to the
// target search/filter layer.
//
// The output is an insertion-ordered string-keyed map (Args) whose values
// are scalars, lists, nested maps, or relation blocks. Order matters: the
// target system treats a relation block's children as positional entries,
// and rendering must reproduce the order the compiler emitted.
//
// Value is a sealed interface using the marker method pattern, mirroring
// the input tree's value model. JSON rendering is implemented per type with
// a hand-rolled ordered object writer; encoding/json map rendering would
// sort keys and lose the positional contract.
package queryargs

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Value is a sealed interface over compiled output values.
// Only String, Int, Bool, List, *Args, and *Relation implement it.
type Value interface {
	argsValue()
}

// String is a scalar string entry.
type String string

func (String) argsValue() {}

// Int is a scalar integer entry.
type Int int64

func (Int) argsValue() {}

// Bool is a scalar boolean entry.
type Bool bool

func (Bool) argsValue() {}

// List is an ordered sequence of values.
type List []Value

func (List) argsValue() {}

// Args is an insertion-ordered map from string keys to values.
//
// Set overwrites in place on key collision, keeping the key's original
// position. The zero value is ready to use.
type Args struct {
	pairs []pair
}

type pair struct {
	key string
	val Value
}

func (*Args) argsValue() {}

// New creates an empty Args.
func New() *Args {
	return &Args{}
}

// Set stores val under key. An existing key keeps its position and gets its
// value replaced; a new key is appended.
func (a *Args) Set(key string, val Value) {
	for i := range a.pairs {
		if a.pairs[i].key == key {
			a.pairs[i].val = val
			return
		}
	}
	a.pairs = append(a.pairs, pair{key: key, val: val})
}

// Get returns the value stored under key.
func (a *Args) Get(key string) (Value, bool) {
	for i := range a.pairs {
		if a.pairs[i].key == key {
			return a.pairs[i].val, true
		}
	}
	return nil, false
}

// Len returns the number of entries.
func (a *Args) Len() int { return len(a.pairs) }

// Keys returns the keys in insertion order.
func (a *Args) Keys() []string {
	keys := make([]string, len(a.pairs))
	for i, p := range a.pairs {
		keys[i] = p.key
	}
	return keys
}

// Merge copies every entry of other into a, entry-wise via Set. Colliding
// keys are overwritten, not combined.
func (a *Args) Merge(other *Args) {
	if other == nil {
		return
	}
	for _, p := range other.pairs {
		a.Set(p.key, p.val)
	}
}

// Render returns the byte-stable rendering of the args: members in
// insertion order, strings unescaped. Byte-sensitive callers use Render
// rather than json.Marshal, which HTML-escapes "<", ">" and "&" even in
// pre-marshaled output.
func (a *Args) Render() ([]byte, error) {
	return a.MarshalJSON()
}

// MarshalJSON renders the entries as a JSON object in insertion order.
func (a *Args) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range a.pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, p.key, p.val); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Relation is a compiled relation block: a combinator token plus the
// compiled children in input order.
//
// It renders as a JSON object whose first member is "relation" and whose
// remaining members use index keys ("0", "1", ...). The target system reads
// child position from those keys.
type Relation struct {
	Op       string
	Children []Value
}

func (*Relation) argsValue() {}

// MarshalJSON renders the block with the relation member first and the
// children under their index keys.
func (r *Relation) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeMember(&buf, "relation", String(r.Op)); err != nil {
		return nil, err
	}
	for i, child := range r.Children {
		buf.WriteByte(',')
		if err := writeMember(&buf, strconv.Itoa(i), child); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeMember writes `"key":<value>` into buf.
func writeMember(buf *bytes.Buffer, key string, val Value) error {
	if err := writeString(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return writeValue(buf, val)
}

// writeString writes a JSON string without HTML escaping. json.Marshal
// would turn the comparison tokens ">", "<", ">=" and "<=" into \u-escapes
// and break the byte-stable rendering contract.
func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// writeValue renders a single value. The type switch is exhaustive over the
// sealed Value set.
func writeValue(buf *bytes.Buffer, val Value) error {
	switch v := val.(type) {
	case String:
		if err := writeString(buf, string(v)); err != nil {
			return err
		}
	case Int:
		buf.WriteString(strconv.FormatInt(int64(v), 10))
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(v)))
	case List:
		buf.WriteByte('[')
		for i, elem := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Args:
		b, err := v.MarshalJSON()
		if err != nil {
			return err
		}
		buf.Write(b)
	case *Relation:
		b, err := v.MarshalJSON()
		if err != nil {
			return err
		}
		buf.Write(b)
	case nil:
		buf.WriteString("null")
	}
	return nil
}
