package card

import (
	"strconv"
	"strings"
)

// Kind identifies the type of data held by a Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindInteger
	KindFloat
	KindText
	KindList
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindList:
		return "list"
	default:
		return "invalid"
	}
}

// Value is a decoded field value: an integer, a float, a piece of text, or
// an ordered list of such scalars for fields on a repeated line.
// The zero Value is invalid.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	list []Value
}

// Int returns an integer Value.
func Int(v int64) Value { return Value{kind: KindInteger, i: v} }

// Float returns a float Value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Text returns a text Value.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// List returns a list Value holding a copy of vs.
func List(vs ...Value) Value {
	return Value{kind: KindList, list: append([]Value{}, vs...)}
}

// Kind reports the kind of the value.
func (v Value) Kind() Kind { return v.kind }


// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInteger
}

// AsFloat returns the float held by v.
func (v Value) AsFloat() (float64, bool) {
	return v.f, v.kind == KindFloat
}

// AsText returns the text held by v.
func (v Value) AsText() (string, bool) {
	return v.s, v.kind == KindText
}

// AsList returns a copy of the elements held by a list value.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return append([]Value{}, v.list...), true
}

// Len returns the number of elements of a list value, and 0 for scalars.
func (v Value) Len() int {
	return len(v.list)
}

// Equal reports whether v and other have the same kind and the same data.
// Integers never equal floats, even when numerically identical.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindInteger:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindText:
		return v.s == other.s
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Interface returns the value as a plain Go value: int64, float64, string,
// or []any for lists. It returns nil for the zero Value.
func (v Value) Interface() any {
	switch v.kind {
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Interface()
		}
		return out
	default:
		return nil
	}
}

// String renders the value for display. Text is quoted.
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return strconv.Quote(v.s)
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "<invalid>"
	}
}

func (v Value) appendElem(e Value) Value {
	v.list = append(v.list, e)
	return v
}
