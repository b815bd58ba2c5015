package resolver

import "fmt"

// ShapeError indicates a call point declared a signature other than
// "one scalar of the domain in, one index out".
type ShapeError struct {
	Domain    Domain
	Signature Signature
	Reason    string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("illegal signature %s for %s resolver: %s", e.Signature, e.Domain, e.Reason)
}

func newShapeError(d Domain, s Signature, reason string) *ShapeError {
	return &ShapeError{Domain: d, Signature: s, Reason: reason}
}

// UnresolvedLabelError indicates an enumerated label that names no constant
// of the target type.
type UnresolvedLabelError struct {
	TypeName string
	Label    string
	Position int
}

func (e *UnresolvedLabelError) Error() string {
	return fmt.Sprintf("label %d: %s has no constant %q", e.Position, e.TypeName, e.Label)
}

func newUnresolvedLabelError(typeName, label string, pos int) *UnresolvedLabelError {
	return &UnresolvedLabelError{TypeName: typeName, Label: label, Position: pos}
}
