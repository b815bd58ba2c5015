package resolver

import "fmt"

// ValueKind tags the payload of a Value.
type ValueKind uint8

const (
	NullValue ValueKind = iota
	IntValue
	TextValue
	OrdinalValue
)

// Value is a runtime value presented to Resolve. The zero Value is the
// absent (null) value.
type Value struct {
	kind ValueKind
	i    int64
	s    string
}

// Null returns the absent value.
func Null() Value { return Value{} }

// Integer returns an integral value, already widened to int64.
func Integer(v int64) Value { return Value{kind: IntValue, i: v} }

// Text returns a textual value.
func Text(s string) Value { return Value{kind: TextValue, s: s} }

// Ordinal returns an enumerated value by its ordinal.
func Ordinal(n int) Value { return Value{kind: OrdinalValue, i: int64(n)} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == NullValue }

// IntValue returns the integral payload; 0 for other kinds.
func (v Value) IntValue() int64 {
	if v.kind != IntValue {
		return 0
	}
	return v.i
}

// TextValue returns the textual payload; "" for other kinds.
func (v Value) TextValue() string { return v.s }

// OrdinalValue returns the ordinal payload; -1 for other kinds.
func (v Value) OrdinalValue() int {
	if v.kind != OrdinalValue {
		return -1
	}
	return int(v.i)
}

func (v Value) String() string {
	switch v.kind {
	case IntValue:
		return fmt.Sprintf("%d", v.i)
	case TextValue:
		return fmt.Sprintf("%q", v.s)
	case OrdinalValue:
		return fmt.Sprintf("#%d", v.i)
	}
	return "null"
}
