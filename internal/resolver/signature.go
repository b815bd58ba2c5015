package resolver

import (
	"fmt"
	"strings"
)

// Kind is the Go representation of a declared parameter or result.
type Kind uint8

const (
	Invalid Kind = iota
	Int8
	Int16
	Int32
	Int64
	Int
	Uint8
	Uint16
	Uint32
	Uint64
	Uint
	String
	Enum
	Index // the int result of a resolver
)

var kindNames = [...]string{
	Invalid: "invalid",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Int:     "int",
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Uint64:  "uint64",
	Uint:    "uint",
	String:  "string",
	Enum:    "enum",
	Index:   "index",
}

// Aliases accepted by ParseKind in addition to the canonical names.
var kindAliases = map[string]Kind{
	"byte": Uint8,
	"rune": Int32,
	"char": Uint16,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsInteger reports whether k is one of the integer widths.
func (k Kind) IsInteger() bool {
	return k >= Int8 && k <= Uint
}

// ParseKind converts a kind name back into a Kind.
func ParseKind(s string) (Kind, error) {
	if k, ok := kindAliases[s]; ok {
		return k, nil
	}
	for k, name := range kindNames {
		if name == s && Kind(k) != Invalid {
			return Kind(k), nil
		}
	}
	return Invalid, fmt.Errorf("unknown kind %q", s)
}

// Type is a declared parameter or result: a kind plus whether the value may
// be absent (a pointer or nil interface in Go).
type Type struct {
	Kind     Kind
	Nullable bool
}

func (t Type) String() string {
	if t.Nullable {
		return t.Kind.String() + "?"
	}
	return t.Kind.String()
}

// ParseType parses the form produced by Type.String, e.g. "int16?".
func ParseType(s string) (Type, error) {
	nullable := strings.HasSuffix(s, "?")
	k, err := ParseKind(strings.TrimSuffix(s, "?"))
	if err != nil {
		return Type{}, err
	}
	return Type{Kind: k, Nullable: nullable}, nil
}

// Signature is the declared shape of a call point.
type Signature struct {
	Params  []Type
	Results []Type
}

// Func returns the only shape a resolver accepts: one parameter in, one
// index out.
func Func(param Type) Signature {
	return Signature{
		Params:  []Type{param},
		Results: []Type{{Kind: Index}},
	}
}

func (s Signature) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.String()
	}
	results := make([]string, len(s.Results))
	for i, r := range s.Results {
		results[i] = r.String()
	}
	return "(" + strings.Join(params, ", ") + ") -> " + strings.Join(results, ", ")
}

// Param returns the single declared parameter. Only meaningful on a
// signature that passed validation.
func (s Signature) Param() Type {
	if len(s.Params) == 0 {
		return Type{}
	}
	return s.Params[0]
}

// admits reports whether a parameter kind belongs to the domain.
func (d Domain) admits(k Kind) bool {
	switch d {
	case Integral:
		return k.IsInteger()
	case Textual:
		return k == String
	case Enumerated:
		return k == Enum
	}
	return false
}

func (s Signature) validate(d Domain) error {
	if len(s.Params) != 1 {
		return newShapeError(d, s, fmt.Sprintf("want exactly 1 parameter, got %d", len(s.Params)))
	}
	if len(s.Results) != 1 {
		return newShapeError(d, s, fmt.Sprintf("want exactly 1 result, got %d", len(s.Results)))
	}
	if r := s.Results[0]; r.Kind != Index || r.Nullable {
		return newShapeError(d, s, "result must be index")
	}
	if p := s.Params[0]; !d.admits(p.Kind) {
		return newShapeError(d, s, fmt.Sprintf("parameter kind %s is not %s", p.Kind, d))
	}
	return nil
}
