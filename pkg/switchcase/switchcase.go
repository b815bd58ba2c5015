// Package switchcase is the embedding API: declare call points in Go code or
// load them from a manifest, then resolve values against them.
//
//	d := switchcase.New()
//	sw, err := d.Integral("status", 200, 404, 500)
//	i, err := sw.Index(int64(404)) // 1
package switchcase

import (
	"context"
	"log"

	"github.com/funvibe/switchcase/internal/binding"
	"github.com/funvibe/switchcase/internal/enums"
	"github.com/funvibe/switchcase/internal/manifest"
	"github.com/funvibe/switchcase/internal/resolver"
)

type (
	Value          = resolver.Value
	Outcome        = resolver.Outcome
	OutcomeKind    = resolver.OutcomeKind
	Type           = resolver.Type
	ConstantSource = resolver.ConstantSource
)

const (
	NullInput    = resolver.NullInput
	MatchedIndex = resolver.MatchedIndex
	NoMatch      = resolver.NoMatch
)

var (
	Null    = resolver.Null
	Integer = resolver.Integer
	Text    = resolver.Text
	Ordinal = resolver.Ordinal

	// ErrArgumentType is returned by Switch.Index for an argument of the
	// wrong Go type.
	ErrArgumentType = binding.ErrArgumentType
)

// Dispatcher owns a set of call points.
type Dispatcher struct {
	cache *binding.Cache
	src   resolver.ConstantSource
}

// Option configures a Dispatcher.
type Option func(*options)

type options struct {
	src    resolver.ConstantSource
	logger *log.Logger
}

// WithConstants sets the source of enumerated constants. Defaults to
// compiled-in protobuf enums.
func WithConstants(src ConstantSource) Option {
	return func(o *options) { o.src = src }
}

// WithEnums adds inline enumerated types in front of the constant source.
func WithEnums(types map[string][]string) Option {
	return func(o *options) {
		o.src = enums.Chain{enums.Static(types), o.src}
	}
}

// WithLogger logs call-point construction.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

func newDispatcher(src resolver.ConstantSource, opts []Option) *Dispatcher {
	o := options{src: src}
	for _, opt := range opts {
		opt(&o)
	}
	return &Dispatcher{
		cache: binding.NewCache(binding.WithLogger(o.logger)),
		src:   o.src,
	}
}

// New creates an empty dispatcher.
func New(opts ...Option) *Dispatcher {
	return newDispatcher(enums.ProtoRegistry{}, opts)
}

// Open loads the manifest at path and builds all of its call points.
func Open(ctx context.Context, path string, opts ...Option) (*Dispatcher, error) {
	m, err := manifest.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	defs, err := m.Definitions()
	if err != nil {
		return nil, err
	}
	d := newDispatcher(m.Source(), opts)
	if err := d.cache.Preload(ctx, defs, d.src); err != nil {
		return nil, err
	}
	return d, nil
}

// Integral declares call point id over int64 labels. The argument may be an
// int64, a *int64 or nil.
func (d *Dispatcher) Integral(id string, labels ...int64) (*Switch, error) {
	return d.bind(id, func() (*resolver.Resolver, error) {
		return resolver.NewIntegral(resolver.Func(resolver.Type{Kind: resolver.Int64, Nullable: true}), labels...)
	})
}

// Textual declares call point id over string labels. The argument may be a
// string, a *string or nil.
func (d *Dispatcher) Textual(id string, labels ...string) (*Switch, error) {
	return d.bind(id, func() (*resolver.Resolver, error) {
		return resolver.NewTextual(resolver.Func(resolver.Type{Kind: resolver.String, Nullable: true}), labels...)
	})
}

// Enumerated declares call point id over constant names of typeName. The
// argument may be a protobuf enum, a value with an Ordinal() int method, or
// nil.
func (d *Dispatcher) Enumerated(ctx context.Context, id, typeName string, names ...string) (*Switch, error) {
	return d.bind(id, func() (*resolver.Resolver, error) {
		return resolver.NewEnumerated(ctx, resolver.Func(resolver.Type{Kind: resolver.Enum, Nullable: true}), d.src, typeName, names...)
	})
}

// Switch returns the already declared call point id.
func (d *Dispatcher) Switch(id string) (*Switch, bool) {
	h, ok := d.cache.Lookup(id)
	if !ok {
		return nil, false
	}
	return &Switch{h: h}, true
}

func (d *Dispatcher) bind(id string, build func() (*resolver.Resolver, error)) (*Switch, error) {
	h, err := d.cache.Bind(id, build)
	if err != nil {
		return nil, err
	}
	return &Switch{h: h}, nil
}

// Switch is one bound call point. A call point id is built once: declaring
// it again returns the first declaration whatever the new labels are.
type Switch struct {
	h *binding.Handle
}

func (s *Switch) ID() string { return s.h.ID() }

// Len returns the number of labels, which is also the no-match index.
func (s *Switch) Len() int { return s.h.Resolver().Len() }

// Index returns -1 for an absent argument, the position of the first label
// it matches, or Len() when none matches.
func (s *Switch) Index(arg any) (int, error) {
	return s.h.Invoke(arg)
}

// Resolve classifies a domain value.
func (s *Switch) Resolve(v Value) Outcome {
	return s.h.Resolve(v)
}
