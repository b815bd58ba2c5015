package binding

import (
	"fmt"
	"reflect"

	"fortio.org/safecast"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/funvibe/switchcase/internal/config"
	"github.com/funvibe/switchcase/internal/enums"
	"github.com/funvibe/switchcase/internal/resolver"
)

// Ordinaler is implemented by enumerated values that know their ordinal.
type Ordinaler interface {
	Ordinal() int
}

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// specialize builds the entry point for the declared parameter of r.
func specialize(id string, r *resolver.Resolver) entry {
	p := r.Signature().Param()
	mismatch := func(arg any) (int, error) {
		return 0, fmt.Errorf("%w: call point %s declares %s, got %T", ErrArgumentType, id, p, arg)
	}

	switch r.Domain() {
	case resolver.Integral:
		lookup, n := r.IntFunc(), r.Len()
		switch p.Kind {
		case resolver.Int8:
			return adaptInt[int8](lookup, n, p.Nullable, mismatch)
		case resolver.Int16:
			return adaptInt[int16](lookup, n, p.Nullable, mismatch)
		case resolver.Int32:
			return adaptInt[int32](lookup, n, p.Nullable, mismatch)
		case resolver.Int64:
			return adaptInt[int64](lookup, n, p.Nullable, mismatch)
		case resolver.Int:
			return adaptInt[int](lookup, n, p.Nullable, mismatch)
		case resolver.Uint8:
			return adaptInt[uint8](lookup, n, p.Nullable, mismatch)
		case resolver.Uint16:
			return adaptInt[uint16](lookup, n, p.Nullable, mismatch)
		case resolver.Uint32:
			return adaptInt[uint32](lookup, n, p.Nullable, mismatch)
		case resolver.Uint64:
			return adaptInt[uint64](lookup, n, p.Nullable, mismatch)
		case resolver.Uint:
			return adaptInt[uint](lookup, n, p.Nullable, mismatch)
		}
	case resolver.Textual:
		return adaptText(r.TextFunc(), p.Nullable, mismatch)
	case resolver.Enumerated:
		return adaptEnum(r.OrdinalFunc(), r.Len(), mismatch)
	}
	// Unreachable for a validated signature.
	return mismatch
}

// adaptInt widens T to int64. Values that do not fit (large uint64) cannot
// equal any label and resolve to no match.
func adaptInt[T integer](lookup func(int64) int, n int, nullable bool, mismatch entry) entry {
	widen := func(v T) int {
		w, err := safecast.Convert[int64](v)
		if err != nil {
			return n
		}
		return lookup(w)
	}
	if !nullable {
		return func(arg any) (int, error) {
			v, ok := arg.(T)
			if !ok {
				return mismatch(arg)
			}
			return widen(v), nil
		}
	}
	return func(arg any) (int, error) {
		switch v := arg.(type) {
		case nil:
			return config.NullIndex, nil
		case *T:
			if v == nil {
				return config.NullIndex, nil
			}
			return widen(*v), nil
		case T:
			return widen(v), nil
		}
		return mismatch(arg)
	}
}

func adaptText(lookup func(string) int, nullable bool, mismatch entry) entry {
	if !nullable {
		return func(arg any) (int, error) {
			s, ok := arg.(string)
			if !ok {
				return mismatch(arg)
			}
			return lookup(s), nil
		}
	}
	return func(arg any) (int, error) {
		switch v := arg.(type) {
		case nil:
			return config.NullIndex, nil
		case *string:
			if v == nil {
				return config.NullIndex, nil
			}
			return lookup(*v), nil
		case string:
			return lookup(v), nil
		}
		return mismatch(arg)
	}
}

// adaptEnum extracts the ordinal of an enumerated argument. Enumerated
// values are references, so nil is always the absent value, including a nil
// pointer to an enum type.
func adaptEnum(lookup func(int) int, n int, mismatch entry) entry {
	return func(arg any) (int, error) {
		switch v := arg.(type) {
		case nil:
			return config.NullIndex, nil
		case protoreflect.Enum:
			if isNilPointer(v) {
				return config.NullIndex, nil
			}
			ord := enums.EnumOrdinal(v)
			if ord < 0 {
				return n, nil
			}
			return lookup(ord), nil
		case Ordinaler:
			if isNilPointer(v) {
				return config.NullIndex, nil
			}
			return lookup(v.Ordinal()), nil
		}
		return mismatch(arg)
	}
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
