// Package callpoint describes call points in a serialisable form and builds
// their resolvers.
package callpoint

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/funvibe/switchcase/internal/config"
	"github.com/funvibe/switchcase/internal/resolver"
)

// Label is one declared case label in source form. Null marks an absent
// label, which only enumerated call points accept (as a placeholder).
type Label struct {
	Text string
	Null bool
}

// Definition is everything needed to build the resolver of one call point.
type Definition struct {
	// ID identifies the call point; the binding cache builds one resolver per ID.
	ID string
	// Domain selects the label kind.
	Domain resolver.Domain
	// Param is the declared parameter; the result is always an index.
	Param resolver.Type
	// Labels in declaration order.
	Labels []Label
	// EnumType names the enumerated type of an Enumerated call point.
	EnumType string
}

// NewID returns a fresh identity for a call point declared without one.
func NewID() string {
	return config.CallPointIDPrefix + uuid.NewString()
}

// DefaultParam is the parameter assumed when a definition does not declare one.
func DefaultParam(d resolver.Domain) resolver.Type {
	switch d {
	case resolver.Integral:
		return resolver.Type{Kind: resolver.Int}
	case resolver.Textual:
		return resolver.Type{Kind: resolver.String}
	case resolver.Enumerated:
		return resolver.Type{Kind: resolver.Enum, Nullable: true}
	}
	return resolver.Type{}
}

// Signature returns the declared call-point signature.
func (d Definition) Signature() resolver.Signature {
	return resolver.Func(d.Param)
}

// Validate checks the definition for errors that do not need a constant
// source. Shape errors are left to the resolver constructors.
func (d Definition) Validate() error {
	if d.ID == "" {
		return errors.New("call point id is required")
	}
	switch d.Domain {
	case resolver.Integral, resolver.Textual:
		if d.EnumType != "" {
			return fmt.Errorf("call point %s: enum type is only valid for enumerated call points", d.ID)
		}
	case resolver.Enumerated:
		if d.EnumType == "" {
			return fmt.Errorf("call point %s: enumerated call points need an enum type", d.ID)
		}
	default:
		return fmt.Errorf("call point %s: unknown domain %v", d.ID, d.Domain)
	}
	for i, l := range d.Labels {
		if l.Null && d.Domain != resolver.Enumerated {
			return fmt.Errorf("call point %s: label %d: null labels are only valid for enumerated call points", d.ID, i)
		}
	}
	return nil
}

// Build constructs the resolver of d. Enumerated call points take their
// constants from src.
func Build(ctx context.Context, d Definition, src resolver.ConstantSource) (*resolver.Resolver, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	switch d.Domain {
	case resolver.Integral:
		labels := make([]int64, len(d.Labels))
		for i, l := range d.Labels {
			v, err := ParseIntLabel(l.Text)
			if err != nil {
				return nil, fmt.Errorf("call point %s: label %d: %w", d.ID, i, err)
			}
			labels[i] = v
		}
		return resolver.NewIntegral(d.Signature(), labels...)
	case resolver.Textual:
		return resolver.NewTextual(d.Signature(), d.texts()...)
	default:
		r, err := resolver.NewEnumerated(ctx, d.Signature(), src, d.EnumType, d.texts()...)
		if err != nil {
			return nil, fmt.Errorf("call point %s: %w", d.ID, err)
		}
		return r, nil
	}
}

func (d Definition) texts() []string {
	texts := make([]string, len(d.Labels))
	for i, l := range d.Labels {
		if !l.Null {
			texts[i] = l.Text
		}
	}
	return texts
}

// ParseIntLabel parses an integral label: a Go integer literal (decimal,
// 0x, 0o, 0b, underscores) or a quoted character such as 'a'.
func ParseIntLabel(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "'") {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return 0, fmt.Errorf("invalid character label %s", s)
		}
		r, size := utf8.DecodeRuneInString(unquoted)
		if size != len(unquoted) {
			return 0, fmt.Errorf("invalid character label %s", s)
		}
		return int64(r), nil
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer label %q", s)
	}
	return v, nil
}
