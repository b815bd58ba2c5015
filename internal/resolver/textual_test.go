package resolver

import (
	"math/rand"
	"testing"
)

func TestTextHash(t *testing.T) {
	tests := []struct {
		in   string
		want int32
	}{
		{"", 0},
		{"a", 97},
		{"Aa", 2112},
		{"BB", 2112},
		{"hello", 99162322},
		{"\U0001F600", 1772899}, // surrogate pair D83D DE00
		{"polygenelubricants", -2147483648},
	}
	for _, tt := range tests {
		if got := TextHash(tt.in); got != tt.want {
			t.Errorf("TextHash(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTextual_Basic(t *testing.T) {
	r := mustTextual(t, "alpha", "beta", "gamma")
	tests := []struct {
		in   string
		want Outcome
	}{
		{"alpha", Outcome{Kind: MatchedIndex, Index: 0}},
		{"beta", Outcome{Kind: MatchedIndex, Index: 1}},
		{"gamma", Outcome{Kind: MatchedIndex, Index: 2}},
		{"delta", Outcome{Kind: NoMatch, Index: 3}},
		{"", Outcome{Kind: NoMatch, Index: 3}},
		{"Beta", Outcome{Kind: NoMatch, Index: 3}},
	}
	for _, tt := range tests {
		if got := r.Resolve(Text(tt.in)); got != tt.want {
			t.Errorf("Resolve(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTextual_HashCollisions(t *testing.T) {
	// "Aa", "BB" and "C#" all hash to 2112.
	r := mustTextual(t, "x", "BB", "Aa", "y")
	ix := r.idx.(*TextualIndex)
	if !ix.HasCollisions() {
		t.Fatal("HasCollisions() = false, want true")
	}
	tests := []struct {
		in   string
		want int
	}{
		{"Aa", 2},
		{"BB", 1},
		{"C#", 4},
		{"x", 0},
		{"y", 3},
	}
	for _, tt := range tests {
		if got := r.Resolve(Text(tt.in)).Index; got != tt.want {
			t.Errorf("Resolve(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTextual_NoCollisionFlagForPlainLabels(t *testing.T) {
	r := mustTextual(t, "alpha", "beta", "gamma")
	if r.idx.(*TextualIndex).HasCollisions() {
		t.Error("HasCollisions() = true for labels with distinct hashes")
	}
	// A probe that shares a hash with no label text still misses.
	r = mustTextual(t, "Aa")
	if got := r.Resolve(Text("BB")); got.Kind != NoMatch {
		t.Errorf("Resolve(BB) = %v, want no-match", got)
	}
}

// Repeated labels resolve to the first declared copy.
func TestTextual_DuplicateLabels(t *testing.T) {
	r := mustTextual(t, "b", "a", "b", "a")
	if got := r.Resolve(Text("a")).Index; got != 1 {
		t.Errorf("Resolve(a) = %d, want 1", got)
	}
	if got := r.Resolve(Text("b")).Index; got != 0 {
		t.Errorf("Resolve(b) = %d, want 0", got)
	}
	if r.idx.(*TextualIndex).HasCollisions() {
		t.Error("exact duplicates must not count as hash collisions")
	}
}

func TestTextual_AgreesWithOracle(t *testing.T) {
	alphabet := []string{"Aa", "BB", "C#", "a", "b", "ab", "ba", "", "AaAa", "BBBB", "AaBB", "BBAa"}
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 100; round++ {
		labels := make([]string, rng.Intn(10))
		for i := range labels {
			labels[i] = alphabet[rng.Intn(len(alphabet))]
		}
		r := mustTextual(t, labels...)
		for _, p := range alphabet {
			if got, want := r.Resolve(Text(p)).Index, oracle(labels, p); got != want {
				t.Fatalf("labels %q: Resolve(%q) = %d, want %d", labels, p, got, want)
			}
		}
	}
}
