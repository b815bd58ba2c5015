// Package binding binds call points to resolvers. Each call point id gets
// exactly one resolver, built on first use and shared afterwards; its Handle
// specializes the entry point to the declared argument type on first call.
package binding

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/funvibe/switchcase/internal/callpoint"
	"github.com/funvibe/switchcase/internal/config"
	"github.com/funvibe/switchcase/internal/resolver"
)

// Cache holds the bound call points of a process.
type Cache struct {
	mu     sync.Mutex
	points map[string]*callPoint

	logger      *log.Logger
	concurrency int
}

// callPoint is one slot of the cache. once guards construction; handle is
// published after a successful build and err after a failed one.
type callPoint struct {
	once   sync.Once
	handle atomic.Pointer[Handle]
	err    error
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger for bind diagnostics. Defaults to discarding.
func WithLogger(l *log.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithConcurrency bounds the number of call points Preload builds at once.
func WithConcurrency(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewCache creates an empty cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		points:      make(map[string]*callPoint),
		logger:      log.New(io.Discard, "", 0),
		concurrency: config.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) slot(id string) *callPoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp, ok := c.points[id]
	if !ok {
		cp = &callPoint{}
		c.points[id] = cp
	}
	return cp
}

// Bind returns the handle of call point id, calling build if and only if this
// is the first Bind for id. Concurrent first binds wait for the single build.
// A failed build is remembered: construction is deterministic, so later
// binds of id return the same error without building again.
func (c *Cache) Bind(id string, build func() (*resolver.Resolver, error)) (*Handle, error) {
	cp := c.slot(id)
	cp.once.Do(func() {
		r, err := build()
		if err != nil {
			cp.err = fmt.Errorf("binding call point %s: %w", id, err)
			c.logger.Printf("[bind] %s: %v", id, err)
			return
		}
		cp.handle.Store(newHandle(id, r))
		c.logger.Printf("[bind] %s: %s resolver %s with %d labels", id, r.Domain(), r.Signature(), r.Len())
	})
	if cp.err != nil {
		return nil, cp.err
	}
	return cp.handle.Load(), nil
}

// BindDefinition binds d.ID to the resolver built from d.
func (c *Cache) BindDefinition(ctx context.Context, d callpoint.Definition, src resolver.ConstantSource) (*Handle, error) {
	return c.Bind(d.ID, func() (*resolver.Resolver, error) {
		return callpoint.Build(ctx, d, src)
	})
}

// Preload binds every definition, building up to the configured number of
// call points concurrently. It returns the first construction error; a
// failing call point does not cancel the others.
func (c *Cache) Preload(ctx context.Context, defs []callpoint.Definition, src resolver.ConstantSource) error {
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for _, d := range defs {
		g.Go(func() error {
			_, err := c.BindDefinition(ctx, d, src)
			return err
		})
	}
	return g.Wait()
}

// Lookup returns the handle of an already bound call point without building.
func (c *Cache) Lookup(id string) (*Handle, bool) {
	c.mu.Lock()
	cp, ok := c.points[id]
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	h := cp.handle.Load()
	return h, h != nil
}

// Handles returns the successfully bound handles ordered by id.
func (c *Cache) Handles() []*Handle {
	c.mu.Lock()
	handles := make([]*Handle, 0, len(c.points))
	for _, cp := range c.points {
		if h := cp.handle.Load(); h != nil {
			handles = append(handles, h)
		}
	}
	c.mu.Unlock()
	sort.Slice(handles, func(i, j int) bool { return handles[i].ID() < handles[j].ID() })
	return handles
}

// Len returns the number of successfully bound call points.
func (c *Cache) Len() int {
	return len(c.Handles())
}
