package resolver

import (
	"cmp"
	"slices"
)

// IntegralIndex holds integer labels sorted by value together with the
// declared position of each sorted entry.
type IntegralIndex struct {
	keys      []int64
	positions []int
}

func buildIntegral(labels []int64) *IntegralIndex {
	positions := make([]int, len(labels))
	for i := range positions {
		positions[i] = i
	}
	// Stable: equal labels keep declaration order, so the leftmost equal key
	// is the first declared one.
	slices.SortStableFunc(positions, func(a, b int) int {
		return cmp.Compare(labels[a], labels[b])
	})

	keys := make([]int64, len(labels))
	for i, p := range positions {
		keys[i] = labels[p]
	}
	return &IntegralIndex{keys: keys, positions: positions}
}

// Lookup returns the declared position of the first label equal to v, or the
// label count when none is.
func (ix *IntegralIndex) Lookup(v int64) int {
	// BinarySearch reports the leftmost match.
	if pos, found := slices.BinarySearch(ix.keys, v); found {
		return ix.positions[pos]
	}
	return len(ix.keys)
}

func (ix *IntegralIndex) resolve(v Value) int {
	if v.kind != IntValue {
		return len(ix.keys)
	}
	return ix.Lookup(v.i)
}

