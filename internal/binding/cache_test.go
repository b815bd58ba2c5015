package binding

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/switchcase/internal/callpoint"
	"github.com/funvibe/switchcase/internal/enums"
	"github.com/funvibe/switchcase/internal/resolver"
)

var paint = enums.Static{
	"paint.Color": {"RED", "GREEN", "BLUE"},
}

func intDef(id string, labels ...string) callpoint.Definition {
	d := callpoint.Definition{ID: id, Domain: resolver.Integral, Param: resolver.Type{Kind: resolver.Int}}
	for _, l := range labels {
		d.Labels = append(d.Labels, callpoint.Label{Text: l})
	}
	return d
}

func TestBind_BuildsOnceUnderConcurrency(t *testing.T) {
	c := NewCache()
	var builds atomic.Int32
	build := func() (*resolver.Resolver, error) {
		builds.Add(1)
		return resolver.NewIntegral(resolver.Func(resolver.Type{Kind: resolver.Int}), 1, 2, 3)
	}

	const workers = 32
	handles := make([]*Handle, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := c.Bind("cp", build)
			if err != nil {
				t.Errorf("Bind: %v", err)
				return
			}
			handles[i] = h
		}(i)
	}
	wg.Wait()

	if got := builds.Load(); got != 1 {
		t.Errorf("build ran %d times, want 1", got)
	}
	for i, h := range handles {
		if h != handles[0] {
			t.Errorf("worker %d got a different handle", i)
		}
	}
}

func TestBind_ErrorIsRemembered(t *testing.T) {
	var buf bytes.Buffer
	c := NewCache(WithLogger(log.New(&buf, "", 0)))
	calls := 0
	boom := errors.New("boom")
	build := func() (*resolver.Resolver, error) {
		calls++
		return nil, boom
	}
	for i := 0; i < 3; i++ {
		h, err := c.Bind("bad", build)
		if h != nil || !errors.Is(err, boom) {
			t.Fatalf("Bind #%d = %v, %v; want nil, boom", i, h, err)
		}
	}
	if calls != 1 {
		t.Errorf("build ran %d times, want 1", calls)
	}
	if !strings.Contains(buf.String(), "[bind] bad: boom") {
		t.Errorf("log = %q, want bind failure", buf.String())
	}
	if _, ok := c.Lookup("bad"); ok {
		t.Error("Lookup found a failed call point")
	}
}

func TestBindDefinition_ShapeErrorReported(t *testing.T) {
	c := NewCache()
	d := intDef("shape", "1")
	d.Param = resolver.Type{Kind: resolver.String}
	_, err := c.BindDefinition(context.Background(), d, nil)
	var shape *resolver.ShapeError
	if !errors.As(err, &shape) {
		t.Fatalf("error = %v, want *ShapeError", err)
	}
}

func TestPreload(t *testing.T) {
	c := NewCache(WithConcurrency(2))
	defs := []callpoint.Definition{
		intDef("b", "10", "20"),
		intDef("a", "0x10"),
		{ID: "c", Domain: resolver.Textual, Param: resolver.Type{Kind: resolver.String}, Labels: []callpoint.Label{{Text: "x"}}},
		{ID: "d", Domain: resolver.Enumerated, Param: resolver.Type{Kind: resolver.Enum, Nullable: true}, EnumType: "paint.Color", Labels: []callpoint.Label{{Text: "BLUE"}}},
	}
	if err := c.Preload(context.Background(), defs, paint); err != nil {
		t.Fatalf("Preload: %v", err)
	}
	var ids []string
	for _, h := range c.Handles() {
		ids = append(ids, h.ID())
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, ids); diff != "" {
		t.Errorf("Handles() mismatch (-want +got):\n%s", diff)
	}
	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}
	h, ok := c.Lookup("a")
	if !ok {
		t.Fatal("Lookup(a) failed")
	}
	if got, _ := h.Invoke(16); got != 0 {
		t.Errorf("a.Invoke(16) = %d, want 0", got)
	}
}

func TestPreload_FailureDoesNotStopOthers(t *testing.T) {
	c := NewCache()
	defs := []callpoint.Definition{
		intDef("good", "1"),
		{ID: "bad", Domain: resolver.Enumerated, Param: resolver.Type{Kind: resolver.Enum}, EnumType: "paint.Color", Labels: []callpoint.Label{{Text: "MAUVE"}}},
	}
	err := c.Preload(context.Background(), defs, paint)
	var unresolved *resolver.UnresolvedLabelError
	if !errors.As(err, &unresolved) {
		t.Fatalf("error = %v, want *UnresolvedLabelError", err)
	}
	if _, ok := c.Lookup("good"); !ok {
		t.Error("good call point was not bound")
	}
}
