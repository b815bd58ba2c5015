package resolver

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// staticConstants is an in-memory ConstantSource for tests.
type staticConstants map[string][]string

func (s staticConstants) Constants(_ context.Context, typeName string) ([]string, error) {
	c, ok := s[typeName]
	if !ok {
		return nil, fmt.Errorf("unknown type %s", typeName)
	}
	return c, nil
}

var colors = staticConstants{
	"paint.Color": {"RED", "GREEN", "BLUE", "CYAN", "BLACK"},
}

func mustIntegral(t *testing.T, labels ...int64) *Resolver {
	t.Helper()
	r, err := NewIntegral(Func(Type{Kind: Int, Nullable: true}), labels...)
	if err != nil {
		t.Fatalf("NewIntegral(%v): %v", labels, err)
	}
	return r
}

func mustTextual(t *testing.T, labels ...string) *Resolver {
	t.Helper()
	r, err := NewTextual(Func(Type{Kind: String, Nullable: true}), labels...)
	if err != nil {
		t.Fatalf("NewTextual(%q): %v", labels, err)
	}
	return r
}

func mustEnumerated(t *testing.T, names ...string) *Resolver {
	t.Helper()
	r, err := NewEnumerated(context.Background(), Func(Type{Kind: Enum, Nullable: true}), colors, "paint.Color", names...)
	if err != nil {
		t.Fatalf("NewEnumerated(%q): %v", names, err)
	}
	return r
}

func TestResolve_NullInput(t *testing.T) {
	strict, err := NewEnumerated(context.Background(), Func(Type{Kind: Enum}), colors, "paint.Color", "RED")
	if err != nil {
		t.Fatal(err)
	}
	resolvers := map[string]*Resolver{
		"integral":            mustIntegral(t, 1, 2, 3),
		"empty":               mustIntegral(t),
		"textual":             mustTextual(t, "a", ""),
		"enumerated":          mustEnumerated(t, "RED"),
		"enumerated not-null": strict,
	}
	for name, r := range resolvers {
		got := r.Resolve(Null())
		if got.Kind != NullInput || got.Index != -1 {
			t.Errorf("%s: Resolve(null) = %v, want null(-1)", name, got)
		}
	}
}

func TestResolve_WrongDomainIsNoMatch(t *testing.T) {
	r := mustIntegral(t, 7)
	for _, v := range []Value{Text("7"), Ordinal(0)} {
		if got := r.Resolve(v); got.Kind != NoMatch || got.Index != 1 {
			t.Errorf("Resolve(%v) = %v, want no-match(1)", v, got)
		}
	}
	e := mustEnumerated(t, "RED", "GREEN")
	if got := e.Resolve(Integer(0)); got.Kind != NoMatch || got.Index != 2 {
		t.Errorf("enumerated Resolve(Integer(0)) = %v, want no-match(2)", got)
	}
}

func TestShapeErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		build func() (*Resolver, error)
	}{
		{"integral no params", func() (*Resolver, error) {
			return NewIntegral(Signature{Results: []Type{{Kind: Index}}}, 1)
		}},
		{"integral two params", func() (*Resolver, error) {
			return NewIntegral(Signature{Params: []Type{{Kind: Int}, {Kind: Int}}, Results: []Type{{Kind: Index}}}, 1)
		}},
		{"integral string param", func() (*Resolver, error) {
			return NewIntegral(Func(Type{Kind: String}), 1)
		}},
		{"integral string result", func() (*Resolver, error) {
			return NewIntegral(Signature{Params: []Type{{Kind: Int}}, Results: []Type{{Kind: String}}}, 1)
		}},
		{"integral nullable result", func() (*Resolver, error) {
			return NewIntegral(Signature{Params: []Type{{Kind: Int}}, Results: []Type{{Kind: Index, Nullable: true}}}, 1)
		}},
		{"textual int param", func() (*Resolver, error) {
			return NewTextual(Func(Type{Kind: Int32}), "a")
		}},
		{"textual no results", func() (*Resolver, error) {
			return NewTextual(Signature{Params: []Type{{Kind: String}}}, "a")
		}},
		{"enumerated string param", func() (*Resolver, error) {
			return NewEnumerated(ctx, Func(Type{Kind: String}), colors, "paint.Color", "RED")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := tt.build()
			if r != nil {
				t.Errorf("expected nil resolver, got %v", r)
			}
			var shape *ShapeError
			if !errors.As(err, &shape) {
				t.Fatalf("error = %v, want *ShapeError", err)
			}
		})
	}
}

func TestShapeError_Message(t *testing.T) {
	_, err := NewTextual(Func(Type{Kind: Int16, Nullable: true}), "x")
	want := "illegal signature (int16?) -> index for textual resolver: parameter kind int16 is not textual"
	if err == nil || err.Error() != want {
		t.Errorf("error = %v, want %q", err, want)
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"int", Type{Kind: Int}},
		{"int16?", Type{Kind: Int16, Nullable: true}},
		{"byte", Type{Kind: Uint8}},
		{"rune?", Type{Kind: Int32, Nullable: true}},
		{"char", Type{Kind: Uint16}},
		{"string", Type{Kind: String}},
		{"enum?", Type{Kind: Enum, Nullable: true}},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if err != nil {
			t.Errorf("ParseType(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"", "?", "float64", "invalid"} {
		if _, err := ParseType(bad); err == nil {
			t.Errorf("ParseType(%q) succeeded, want error", bad)
		}
	}
}

func TestParseDomain(t *testing.T) {
	for _, d := range []Domain{Integral, Textual, Enumerated} {
		got, err := ParseDomain(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDomain(%q) = %v, %v", d.String(), got, err)
		}
	}
	if _, err := ParseDomain("boolean"); err == nil {
		t.Error("ParseDomain(boolean) succeeded, want error")
	}
}

func TestResolver_LabelsAreCopied(t *testing.T) {
	labels := []int64{3, 1, 2}
	r := mustIntegral(t, labels...)
	labels[0] = 99
	if got := r.Resolve(Integer(3)); got.Index != 0 {
		t.Errorf("Resolve(3) after caller mutation = %v, want matched(0)", got)
	}
	if diff := cmp.Diff([]int64{3, 1, 2}, r.Labels().Ints()); diff != "" {
		t.Errorf("Labels() mismatch (-want +got):\n%s", diff)
	}
}

func TestIdempotence_EqualLabelSets(t *testing.T) {
	labels := []string{"x", "Aa", "BB", "x", "yy"}
	a := mustTextual(t, labels...)
	b := mustTextual(t, labels...)
	probes := append(labels, "C#", "z", "", "Ab")
	for _, p := range probes {
		ra, rb := a.Resolve(Text(p)), b.Resolve(Text(p))
		if ra != rb {
			t.Errorf("Resolve(%q): %v vs %v", p, ra, rb)
		}
		if again := a.Resolve(Text(p)); again != ra {
			t.Errorf("Resolve(%q) not repeatable: %v then %v", p, ra, again)
		}
	}
}

// oracle is the first-match linear scan every resolver must agree with.
func oracle[T comparable](labels []T, v T) int {
	for i, l := range labels {
		if l == v {
			return i
		}
	}
	return len(labels)
}

func TestConcurrentResolve(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ints := make([]int64, 64)
	for i := range ints {
		ints[i] = rng.Int63n(50) - 25
	}
	texts := []string{"Aa", "BB", "C#", "alpha", "beta", "Aa", "", "gamma"}

	ir := mustIntegral(t, ints...)
	tr := mustTextual(t, texts...)
	probes := []string{"Aa", "BB", "C#", "Ab", "alpha", "", "delta", "gamma"}

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan string, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < 2000; i++ {
				v := rng.Int63n(60) - 30
				if got, want := ir.Resolve(Integer(v)).Index, oracle(ints, v); got != want {
					errs <- fmt.Sprintf("integral Resolve(%d) = %d, want %d", v, got, want)
					return
				}
				s := probes[rng.Intn(len(probes))]
				if got, want := tr.Resolve(Text(s)).Index, oracle(texts, s); got != want {
					errs <- fmt.Sprintf("textual Resolve(%q) = %d, want %d", s, got, want)
					return
				}
			}
		}(int64(w))
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}
