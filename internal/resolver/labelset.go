package resolver

import "slices"

// LabelSet is the ordered list of case labels declared at a call point.
// Positions in the list are the result index space; duplicates are allowed.
// Enumerated labels are constant names, with "" as a skipped placeholder.
type LabelSet struct {
	domain Domain
	ints   []int64
	texts  []string
}

// IntegralLabels returns a LabelSet over integer labels.
func IntegralLabels(labels ...int64) LabelSet {
	return LabelSet{domain: Integral, ints: slices.Clone(labels)}
}

// TextualLabels returns a LabelSet over string labels.
func TextualLabels(labels ...string) LabelSet {
	return LabelSet{domain: Textual, texts: slices.Clone(labels)}
}

// EnumeratedLabels returns a LabelSet over enum constant names.
func EnumeratedLabels(names ...string) LabelSet {
	return LabelSet{domain: Enumerated, texts: slices.Clone(names)}
}

func (ls LabelSet) Domain() Domain { return ls.domain }

func (ls LabelSet) Len() int {
	if ls.domain == Integral {
		return len(ls.ints)
	}
	return len(ls.texts)
}

// Ints returns a copy of the integral labels.
func (ls LabelSet) Ints() []int64 { return slices.Clone(ls.ints) }

// Texts returns a copy of the textual labels or enum names.
func (ls LabelSet) Texts() []string { return slices.Clone(ls.texts) }
