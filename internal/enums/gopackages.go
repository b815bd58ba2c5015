package enums

import (
	"context"
	"fmt"
	"go/constant"
	"go/token"
	"go/types"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/tools/go/packages"
)

// GoPackages treats a Go named type as an enumerated type: its constants are
// the package-level constants of exactly that type, ordered by declaration.
// Type names are "import/path.TypeName", e.g. "time.Weekday".
//
// A constant repeating the value of an earlier one (Ptr = Pointer) is an
// alias and gets no ordinal of its own.
type GoPackages struct {
	// Dir is the directory packages are loaded from, normally inside the
	// module that can import them.
	Dir string

	mu   sync.Mutex
	pkgs map[string]*packages.Package
}

// NewGoPackages returns a source loading packages relative to dir.
func NewGoPackages(dir string) *GoPackages {
	return &GoPackages{Dir: dir, pkgs: make(map[string]*packages.Package)}
}

func (g *GoPackages) Constants(ctx context.Context, typeName string) ([]string, error) {
	pkgPath, name, ok := splitTypeName(typeName)
	if !ok {
		return nil, unknownType(typeName)
	}
	pkg, err := g.load(ctx, pkgPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnknownType, typeName, err)
	}

	scope := pkg.Types.Scope()
	tn, ok := scope.Lookup(name).(*types.TypeName)
	if !ok {
		return nil, unknownType(typeName)
	}
	target := tn.Type()

	var consts []*types.Const
	for _, n := range scope.Names() {
		if c, ok := scope.Lookup(n).(*types.Const); ok && types.Identical(c.Type(), target) {
			consts = append(consts, c)
		}
	}
	sort.Slice(consts, func(i, j int) bool { return consts[i].Pos() < consts[j].Pos() })

	var names []string
	var seen []constant.Value
	for _, c := range consts {
		if containsValue(seen, c.Val()) {
			continue
		}
		seen = append(seen, c.Val())
		names = append(names, c.Name())
	}
	return names, nil
}

func (g *GoPackages) load(ctx context.Context, pkgPath string) (*packages.Package, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if pkg, ok := g.pkgs[pkgPath]; ok {
		return pkg, nil
	}
	if g.pkgs == nil {
		g.pkgs = make(map[string]*packages.Package)
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedTypes,
		Dir:     g.Dir,
		Env:     append(os.Environ(), "GOWORK=off"),
	}
	pkgs, err := packages.Load(cfg, pkgPath)
	if err != nil {
		return nil, fmt.Errorf("loading package %s: %w", pkgPath, err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("loading package %s: got %d packages", pkgPath, len(pkgs))
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		var errs []string
		for _, e := range pkg.Errors {
			errs = append(errs, e.Msg)
		}
		return nil, fmt.Errorf("package errors:\n  %s", strings.Join(errs, "\n  "))
	}
	if pkg.Types == nil {
		return nil, fmt.Errorf("package %s has no type information", pkgPath)
	}
	g.pkgs[pkgPath] = pkg
	return pkg, nil
}

// splitTypeName splits "gopkg.in/yaml.v3.Kind" into "gopkg.in/yaml.v3" and "Kind".
func splitTypeName(typeName string) (pkgPath, name string, ok bool) {
	i := strings.LastIndex(typeName, ".")
	if i <= 0 || i == len(typeName)-1 || strings.Contains(typeName[i+1:], "/") {
		return "", "", false
	}
	return typeName[:i], typeName[i+1:], true
}

func containsValue(vals []constant.Value, v constant.Value) bool {
	for _, s := range vals {
		if constant.Compare(s, token.EQL, v) {
			return true
		}
	}
	return false
}
