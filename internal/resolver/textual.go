package resolver

import (
	"cmp"
	"slices"
)

// TextualIndex holds string labels sorted by TextHash. Hash order is not a
// total order on strings, so a binary-search hit on the hash still needs a
// text comparison, and distinct labels sharing a hash form a run that is
// scanned linearly.
type TextualIndex struct {
	sorted     []string
	hashes     []int32
	positions  []int
	collisions bool
}

func buildTextual(labels []string) *TextualIndex {
	hashes := make([]int32, len(labels))
	positions := make([]int, len(labels))
	for i, s := range labels {
		hashes[i] = TextHash(s)
		positions[i] = i
	}
	// Stable on the hash alone. Sorting positions rather than a clone of the
	// labels gives each sorted slot its own declared position directly; a
	// repeated label keeps declaration order within its run, so the first
	// declared copy is the one found first.
	slices.SortStableFunc(positions, func(a, b int) int {
		return cmp.Compare(hashes[a], hashes[b])
	})

	ix := &TextualIndex{
		sorted:    make([]string, len(labels)),
		hashes:    make([]int32, len(labels)),
		positions: positions,
	}
	for i, p := range positions {
		ix.sorted[i] = labels[p]
		ix.hashes[i] = hashes[p]
	}
	for i := 1; i < len(ix.sorted); i++ {
		if ix.hashes[i] == ix.hashes[i-1] && ix.sorted[i] != ix.sorted[i-1] {
			ix.collisions = true
			break
		}
	}
	return ix
}

// Lookup returns the declared position of the first label equal to s, or the
// label count when none is.
func (ix *TextualIndex) Lookup(s string) int {
	h := TextHash(s)
	pos, found := slices.BinarySearch(ix.hashes, h)
	if !found {
		return len(ix.sorted)
	}
	if ix.sorted[pos] == s {
		return ix.positions[pos]
	}
	if !ix.collisions {
		return len(ix.sorted)
	}
	// pos is the leftmost slot with hash h; walk the rest of the run.
	for i := pos + 1; i < len(ix.sorted) && ix.hashes[i] == h; i++ {
		if ix.sorted[i] == s {
			return ix.positions[i]
		}
	}
	return len(ix.sorted)
}

// HasCollisions reports whether two distinct labels share a hash.
func (ix *TextualIndex) HasCollisions() bool { return ix.collisions }

func (ix *TextualIndex) resolve(v Value) int {
	if v.kind != TextValue {
		return len(ix.sorted)
	}
	return ix.Lookup(v.s)
}

