package resolver

import (
	"context"
	"fmt"
)

// ConstantSource supplies the complete, ordered constant list of an
// enumerated type. The position of a name in the list is its ordinal.
type ConstantSource interface {
	Constants(ctx context.Context, typeName string) ([]string, error)
}

// OrdinalTable maps every ordinal of an enumerated type to the declared
// position of its label, or to the label count for unnamed constants.
type OrdinalTable struct {
	table []int
	n     int
}

func buildOrdinal(typeName string, constants, names []string) (*OrdinalTable, error) {
	ordinals := make(map[string]int, len(constants))
	for ord, c := range constants {
		if _, dup := ordinals[c]; !dup {
			ordinals[c] = ord
		}
	}

	n := len(names)
	table := make([]int, len(constants))
	for i := range table {
		table[i] = n
	}
	for i, name := range names {
		if name == "" {
			continue
		}
		ord, ok := ordinals[name]
		if !ok {
			return nil, newUnresolvedLabelError(typeName, name, i)
		}
		// First declaration wins, matching the other domains.
		if table[ord] == n {
			table[ord] = i
		}
	}
	return &OrdinalTable{table: table, n: n}, nil
}

// Lookup returns the table entry for ordinal; ordinals outside the type give
// the label count.
func (t *OrdinalTable) Lookup(ordinal int) int {
	if ordinal < 0 || ordinal >= len(t.table) {
		return t.n
	}
	return t.table[ordinal]
}

// Constants returns the number of constants of the enumerated type.
func (t *OrdinalTable) Constants() int { return len(t.table) }

func (t *OrdinalTable) resolve(v Value) int {
	if v.kind != OrdinalValue {
		return t.n
	}
	return t.Lookup(int(v.i))
}

func loadConstants(ctx context.Context, src ConstantSource, typeName string) ([]string, error) {
	if src == nil {
		return nil, fmt.Errorf("no constant source for %s", typeName)
	}
	constants, err := src.Constants(ctx, typeName)
	if err != nil {
		return nil, fmt.Errorf("loading constants of %s: %w", typeName, err)
	}
	return constants, nil
}
