package binding

import (
	"errors"
	"sync/atomic"

	"github.com/funvibe/switchcase/internal/resolver"
)

// ErrArgumentType is returned by Handle.Invoke for an argument whose Go type
// the declared parameter does not admit.
var ErrArgumentType = errors.New("argument type does not match call point")

// entry is a specialized call-point entry point.
type entry func(arg any) (int, error)

// Handle is the bound form of one call point.
type Handle struct {
	id    string
	r     *resolver.Resolver
	entry atomic.Pointer[entry]
}

func newHandle(id string, r *resolver.Resolver) *Handle {
	return &Handle{id: id, r: r}
}

func (h *Handle) ID() string                    { return h.id }
func (h *Handle) Resolver() *resolver.Resolver  { return h.r }
func (h *Handle) Signature() resolver.Signature { return h.r.Signature() }

// Specialized reports whether the first Invoke has happened.
func (h *Handle) Specialized() bool {
	return h.entry.Load() != nil
}

// Invoke resolves arg and returns the result index: -1 for an absent value,
// the matched label position, or the label count for no match.
//
// The first call builds an entry point specialized to the declared parameter
// and publishes it; concurrent first calls may each build one, all
// equivalent, and the first published is kept.
func (h *Handle) Invoke(arg any) (int, error) {
	if fn := h.entry.Load(); fn != nil {
		return (*fn)(arg)
	}
	fn := specialize(h.id, h.r)
	h.entry.CompareAndSwap(nil, &fn)
	return (*h.entry.Load())(arg)
}

// Resolve classifies an already adapted value.
func (h *Handle) Resolve(v resolver.Value) resolver.Outcome {
	return h.r.Resolve(v)
}
