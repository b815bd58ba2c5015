// Package enums supplies the complete, ordered constant lists of enumerated
// types. A constant's position in its list is its ordinal.
//
// Sources:
//   - Static: in-memory lists, typically from the manifest
//   - ProtoRegistry: protobuf enums compiled into the binary
//   - ProtoFiles: protobuf enums parsed from .proto files
//   - GoPackages: typed constants of a Go named type, in declaration order
//   - Chain: the first source that knows a type
package enums

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/funvibe/switchcase/internal/resolver"
)

// ErrUnknownType is returned (wrapped) by every source for a type it does
// not know. Chain relies on it to fall through to the next source.
var ErrUnknownType = errors.New("unknown enumerated type")

func unknownType(typeName string) error {
	return fmt.Errorf("%w: %s", ErrUnknownType, typeName)
}

// Static maps type names to constant names.
type Static map[string][]string

func (s Static) Constants(_ context.Context, typeName string) ([]string, error) {
	names, ok := s[typeName]
	if !ok {
		return nil, unknownType(typeName)
	}
	return slices.Clone(names), nil
}

// Chain asks each source in turn; the first one that knows the type answers.
// Errors other than ErrUnknownType stop the search.
type Chain []resolver.ConstantSource

func (c Chain) Constants(ctx context.Context, typeName string) ([]string, error) {
	for _, src := range c {
		if src == nil {
			continue
		}
		names, err := src.Constants(ctx, typeName)
		if err == nil {
			return names, nil
		}
		if !errors.Is(err, ErrUnknownType) {
			return nil, err
		}
	}
	return nil, unknownType(typeName)
}

// Ordinal returns the position of name in the constant list of typeName,
// or -1 when it is not one of its constants.
func Ordinal(ctx context.Context, src resolver.ConstantSource, typeName, name string) (int, error) {
	names, err := src.Constants(ctx, typeName)
	if err != nil {
		return -1, err
	}
	return slices.Index(names, name), nil
}
