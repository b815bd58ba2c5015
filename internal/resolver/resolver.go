package resolver

import (
	"context"

	"github.com/funvibe/switchcase/internal/config"
)

// index is the closed set of per-domain lookup structures:
// *IntegralIndex, *TextualIndex and *OrdinalTable.
type index interface {
	resolve(v Value) int
}

// Resolver is the immutable dispatch structure of one call point. It is safe
// for concurrent use without synchronization.
type Resolver struct {
	sig      Signature
	labels   LabelSet
	typeName string
	idx      index
}

// NewIntegral builds a resolver over integer labels.
func NewIntegral(sig Signature, labels ...int64) (*Resolver, error) {
	if err := sig.validate(Integral); err != nil {
		return nil, err
	}
	ls := IntegralLabels(labels...)
	return &Resolver{sig: sig, labels: ls, idx: buildIntegral(ls.ints)}, nil
}

// NewTextual builds a resolver over string labels.
func NewTextual(sig Signature, labels ...string) (*Resolver, error) {
	if err := sig.validate(Textual); err != nil {
		return nil, err
	}
	ls := TextualLabels(labels...)
	return &Resolver{sig: sig, labels: ls, idx: buildTextual(ls.texts)}, nil
}

// NewEnumerated builds a resolver over constant names of typeName. The
// complete constant list, which sizes the ordinal table, comes from src.
// A name that is not a constant of the type fails with
// *UnresolvedLabelError; "" names are placeholders and are skipped.
func NewEnumerated(ctx context.Context, sig Signature, src ConstantSource, typeName string, names ...string) (*Resolver, error) {
	if err := sig.validate(Enumerated); err != nil {
		return nil, err
	}
	constants, err := loadConstants(ctx, src, typeName)
	if err != nil {
		return nil, err
	}
	ls := EnumeratedLabels(names...)
	table, err := buildOrdinal(typeName, constants, ls.texts)
	if err != nil {
		return nil, err
	}
	return &Resolver{sig: sig, labels: ls, typeName: typeName, idx: table}, nil
}

func (r *Resolver) Domain() Domain       { return r.labels.domain }
func (r *Resolver) Signature() Signature { return r.sig }
func (r *Resolver) Labels() LabelSet     { return r.labels }

// Len returns the number of declared labels, which is also the NoMatch index.
func (r *Resolver) Len() int { return r.labels.Len() }

// TypeName returns the enumerated type of an Enumerated resolver.
func (r *Resolver) TypeName() string { return r.typeName }

// Resolve classifies v. It never fails: values of another domain than the
// resolver's are NoMatch.
func (r *Resolver) Resolve(v Value) Outcome {
	if v.IsNull() {
		return OutcomeOf(config.NullIndex, r.Len())
	}
	return OutcomeOf(r.idx.resolve(v), r.Len())
}

// IntFunc returns the integral lookup bound to this resolver. On a resolver
// of another domain every call returns the label count.
func (r *Resolver) IntFunc() func(int64) int {
	if ix, ok := r.idx.(*IntegralIndex); ok {
		return ix.Lookup
	}
	n := r.Len()
	return func(int64) int { return n }
}

// TextFunc returns the textual lookup bound to this resolver.
func (r *Resolver) TextFunc() func(string) int {
	if ix, ok := r.idx.(*TextualIndex); ok {
		return ix.Lookup
	}
	n := r.Len()
	return func(string) int { return n }
}

// OrdinalFunc returns the ordinal lookup bound to this resolver.
func (r *Resolver) OrdinalFunc() func(int) int {
	if t, ok := r.idx.(*OrdinalTable); ok {
		return t.Lookup
	}
	n := r.Len()
	return func(int) int { return n }
}
