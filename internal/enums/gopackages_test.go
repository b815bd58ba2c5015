package enums

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestSplitTypeName(t *testing.T) {
	tests := []struct {
		in, pkg, name string
		ok            bool
	}{
		{"time.Weekday", "time", "Weekday", true},
		{"gopkg.in/yaml.v3.Kind", "gopkg.in/yaml.v3", "Kind", true},
		{"github.com/x/y/paint.Color", "github.com/x/y/paint", "Color", true},
		{"Weekday", "", "", false},
		{"time.", "", "", false},
		{"gopkg.in/yaml", "", "", false},
	}
	for _, tt := range tests {
		pkg, name, ok := splitTypeName(tt.in)
		if pkg != tt.pkg || name != tt.name || ok != tt.ok {
			t.Errorf("splitTypeName(%q) = %q, %q, %v", tt.in, pkg, name, ok)
		}
	}
}

func TestGoPackages(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}
	src := NewGoPackages(".")
	ctx := context.Background()

	days, err := src.Constants(ctx, "time.Weekday")
	if err != nil {
		t.Fatalf("Constants(time.Weekday): %v", err)
	}
	want := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	if !slices.Equal(days, want) {
		t.Errorf("Constants(time.Weekday) = %v, want %v", days, want)
	}

	kinds, err := src.Constants(ctx, "reflect.Kind")
	if err != nil {
		t.Fatalf("Constants(reflect.Kind): %v", err)
	}
	if kinds[0] != "Invalid" || !slices.Contains(kinds, "Pointer") {
		t.Errorf("Constants(reflect.Kind) = %v", kinds)
	}
	if slices.Contains(kinds, "Ptr") {
		t.Error("alias constant Ptr got its own ordinal")
	}

	if _, err := src.Constants(ctx, "time.Fortnight"); !errors.Is(err, ErrUnknownType) {
		t.Errorf("error = %v, want ErrUnknownType", err)
	}
	if _, err := src.Constants(ctx, "no/such/pkg.Type"); !errors.Is(err, ErrUnknownType) {
		t.Errorf("error = %v, want ErrUnknownType", err)
	}
}
