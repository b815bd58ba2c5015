package resolver

import (
	"math"
	"math/rand"
	"testing"
)

func TestIntegral_FirstDuplicateWins(t *testing.T) {
	r := mustIntegral(t, 5, 1, 9, 1)
	tests := []struct {
		in   int64
		want Outcome
	}{
		{1, Outcome{Kind: MatchedIndex, Index: 1}},
		{5, Outcome{Kind: MatchedIndex, Index: 0}},
		{9, Outcome{Kind: MatchedIndex, Index: 2}},
		{42, Outcome{Kind: NoMatch, Index: 4}},
		{0, Outcome{Kind: NoMatch, Index: 4}},
		{-1, Outcome{Kind: NoMatch, Index: 4}},
	}
	for _, tt := range tests {
		if got := r.Resolve(Integer(tt.in)); got != tt.want {
			t.Errorf("Resolve(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIntegral_ManyDuplicates(t *testing.T) {
	// Leftmost-hit must hold however the binary search probes the run.
	labels := []int64{7, 3, 3, 3, 3, 3, 3, 3, 3, 1, 3}
	r := mustIntegral(t, labels...)
	if got := r.Resolve(Integer(3)); got.Index != 1 {
		t.Errorf("Resolve(3) = %v, want matched(1)", got)
	}
	if got := r.Resolve(Integer(1)); got.Index != 9 {
		t.Errorf("Resolve(1) = %v, want matched(9)", got)
	}
}

func TestIntegral_Extremes(t *testing.T) {
	r := mustIntegral(t, math.MaxInt64, math.MinInt64, 0)
	if got := r.Resolve(Integer(math.MinInt64)); got.Index != 1 {
		t.Errorf("Resolve(MinInt64) = %v, want matched(1)", got)
	}
	if got := r.Resolve(Integer(math.MaxInt64)); got.Index != 0 {
		t.Errorf("Resolve(MaxInt64) = %v, want matched(0)", got)
	}
	if got := r.Resolve(Integer(math.MaxInt64 - 1)); got.Kind != NoMatch {
		t.Errorf("Resolve(MaxInt64-1) = %v, want no-match", got)
	}
}

func TestIntegral_Empty(t *testing.T) {
	r := mustIntegral(t)
	if got := r.Resolve(Integer(0)); got.Kind != NoMatch || got.Index != 0 {
		t.Errorf("Resolve(0) = %v, want no-match(0)", got)
	}
}

func TestIntegral_AgreesWithOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		labels := make([]int64, rng.Intn(40))
		for i := range labels {
			labels[i] = rng.Int63n(30) - 15
		}
		r := mustIntegral(t, labels...)
		for v := int64(-20); v <= 20; v++ {
			if got, want := r.Resolve(Integer(v)).Index, oracle(labels, v); got != want {
				t.Fatalf("labels %v: Resolve(%d) = %d, want %d", labels, v, got, want)
			}
		}
	}
}

func TestIntFunc(t *testing.T) {
	r := mustIntegral(t, 10, 20)
	lookup := r.IntFunc()
	if got := lookup(20); got != 1 {
		t.Errorf("IntFunc()(20) = %d, want 1", got)
	}
	if got := lookup(30); got != 2 {
		t.Errorf("IntFunc()(30) = %d, want 2", got)
	}
	// Another domain's lookup is a constant no-match.
	if got := r.TextFunc()("10"); got != 2 {
		t.Errorf("TextFunc()(\"10\") on integral = %d, want 2", got)
	}
}
