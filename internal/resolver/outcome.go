package resolver

import (
	"fmt"

	"github.com/funvibe/switchcase/internal/config"
)

// OutcomeKind is the three-way classification of a resolved value.
type OutcomeKind uint8

const (
	NullInput OutcomeKind = iota
	MatchedIndex
	NoMatch
)

func (k OutcomeKind) String() string {
	switch k {
	case NullInput:
		return "null"
	case MatchedIndex:
		return "matched"
	case NoMatch:
		return "no-match"
	}
	return fmt.Sprintf("OutcomeKind(%d)", uint8(k))
}

// Outcome is the result of Resolve. Index follows the call-point result
// contract: -1 for NullInput, the label position for MatchedIndex and the
// label count for NoMatch.
type Outcome struct {
	Kind  OutcomeKind
	Index int
}

// Matched returns the label position and true for a MatchedIndex outcome.
func (o Outcome) Matched() (int, bool) {
	if o.Kind != MatchedIndex {
		return 0, false
	}
	return o.Index, true
}

func (o Outcome) String() string {
	if o.Kind == MatchedIndex {
		return fmt.Sprintf("matched(%d)", o.Index)
	}
	return fmt.Sprintf("%s(%d)", o.Kind, o.Index)
}

// OutcomeOf classifies a raw contract index against a label count n.
func OutcomeOf(raw, n int) Outcome {
	switch {
	case raw == config.NullIndex:
		return Outcome{Kind: NullInput, Index: config.NullIndex}
	case raw >= 0 && raw < n:
		return Outcome{Kind: MatchedIndex, Index: raw}
	}
	return Outcome{Kind: NoMatch, Index: n}
}
