// Package manifest reads switchcase.yaml, the declarative list of call points
// a process binds, together with the enumerated types they refer to.
//
// A manifest looks like:
//
//	enums:
//	  paint.Color: [RED, GREEN, BLUE]
//	proto:
//	  import_paths: [protos]
//	  files: [shades.proto]
//	call_points:
//	  - id: status-class
//	    domain: integral
//	    arg: int16
//	    labels: [200, 404, 0x1F4]
//	  - id: primary
//	    domain: enumerated
//	    enum: paint.Color
//	    labels: [RED, ~, BLUE]
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/switchcase/internal/callpoint"
	"github.com/funvibe/switchcase/internal/config"
	"github.com/funvibe/switchcase/internal/enums"
	"github.com/funvibe/switchcase/internal/resolver"
)

// Manifest is the top-level switchcase.yaml document.
type Manifest struct {
	// CallPoints lists the call points to bind.
	CallPoints []CallPoint `yaml:"call_points"`

	// Enums declares enumerated types inline: type name to constant names in
	// ordinal order.
	Enums map[string][]string `yaml:"enums,omitempty"`

	// Proto names .proto files whose enums may be used as enumerated types.
	Proto Proto `yaml:"proto,omitempty"`

	// GoDir is the directory Go packages are loaded from when an enum type
	// is a Go named type such as time.Weekday. Relative to the manifest;
	// defaults to the manifest directory.
	GoDir string `yaml:"go_dir,omitempty"`

	dir string
}

// Proto configures the .proto enum source.
type Proto struct {
	ImportPaths []string `yaml:"import_paths,omitempty"`
	Files       []string `yaml:"files,omitempty"`
}

// CallPoint is one declared call point.
type CallPoint struct {
	// ID is the call-point identity. Generated when omitted.
	ID string `yaml:"id,omitempty"`

	// Domain is one of integral, textual, enumerated.
	Domain string `yaml:"domain"`

	// Arg is the declared parameter type, e.g. "int16", "string?", "enum".
	// Defaults per domain: int, string, enum?.
	Arg string `yaml:"arg,omitempty"`

	// Enum names the enumerated type. Required for the enumerated domain.
	Enum string `yaml:"enum,omitempty"`

	// Labels in declaration order. A null label (~) is a placeholder and is
	// only valid for the enumerated domain.
	Labels Labels `yaml:"labels"`
}

// Labels is a label sequence that keeps null items in place. yaml.v3 skips
// null sequence items before an element's UnmarshalYAML runs, so the
// sequence is walked here.
type Labels []Label

func (ls *Labels) UnmarshalYAML(node *yaml.Node) error {
	if node.ShortTag() == "!!null" {
		*ls = nil
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: labels must be a sequence", node.Line)
	}
	out := make(Labels, len(node.Content))
	for i, item := range node.Content {
		if err := out[i].UnmarshalYAML(item); err != nil {
			return err
		}
	}
	*ls = out
	return nil
}

// Label is a label scalar that remembers whether it was null.
type Label struct {
	Text string
	Null bool
}

func (l *Label) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: label must be a scalar", node.Line)
	}
	if node.ShortTag() == "!!null" {
		*l = Label{Null: true}
		return nil
	}
	*l = Label{Text: node.Value}
	return nil
}

func (l Label) MarshalYAML() (any, error) {
	if l.Null {
		return nil, nil
	}
	return l.Text, nil
}

// LoadManifest reads and parses a switchcase.yaml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return ParseManifest(data, path)
}

// ParseManifest parses manifest content. The path is used for error messages
// and to resolve relative directories.
func ParseManifest(data []byte, path string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := m.validate(path); err != nil {
		return nil, err
	}
	m.setDefaults()
	m.dir = filepath.Dir(path)
	return &m, nil
}

// FindManifest searches for switchcase.yaml starting from dir and walking up
// to parent directories. It returns "" and a nil error when there is none.
func FindManifest(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		for _, name := range config.ManifestFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (m *Manifest) validate(path string) error {
	if len(m.CallPoints) == 0 {
		return fmt.Errorf("%s: no call points defined", path)
	}

	seen := make(map[string]int)
	for i, cp := range m.CallPoints {
		d, err := resolver.ParseDomain(cp.Domain)
		if err != nil {
			return fmt.Errorf("%s: call_points[%d]: %w", path, i, err)
		}
		if cp.ID != "" {
			if prev, ok := seen[cp.ID]; ok {
				return fmt.Errorf("%s: call_points[%d]: id %q already used by call_points[%d]", path, i, cp.ID, prev)
			}
			seen[cp.ID] = i
		}
		if cp.Arg != "" {
			if _, err := resolver.ParseType(cp.Arg); err != nil {
				return fmt.Errorf("%s: call_points[%d]: %w", path, i, err)
			}
		}
		if d == resolver.Enumerated && cp.Enum == "" {
			return fmt.Errorf("%s: call_points[%d]: enum is required for the enumerated domain", path, i)
		}
		if d != resolver.Enumerated && cp.Enum != "" {
			return fmt.Errorf("%s: call_points[%d]: enum is only valid for the enumerated domain", path, i)
		}
		for j, l := range cp.Labels {
			if l.Null && d != resolver.Enumerated {
				return fmt.Errorf("%s: call_points[%d].labels[%d]: null labels are only valid for the enumerated domain", path, i, j)
			}
			if d == resolver.Integral {
				if _, err := callpoint.ParseIntLabel(l.Text); err != nil {
					return fmt.Errorf("%s: call_points[%d].labels[%d]: %w", path, i, j, err)
				}
			}
		}
	}

	for name, constants := range m.Enums {
		if len(constants) == 0 {
			return fmt.Errorf("%s: enums[%s]: no constants", path, name)
		}
	}
	return nil
}

func (m *Manifest) setDefaults() {
	for i := range m.CallPoints {
		cp := &m.CallPoints[i]
		if cp.ID == "" {
			cp.ID = callpoint.NewID()
		}
		if cp.Arg == "" {
			d, _ := resolver.ParseDomain(cp.Domain)
			cp.Arg = callpoint.DefaultParam(d).String()
		}
	}
}

// Dir returns the directory the manifest was read from.
func (m *Manifest) Dir() string { return m.dir }

// Definition converts cp to its callpoint form. The manifest must have been
// validated.
func (cp CallPoint) Definition() (callpoint.Definition, error) {
	d, err := resolver.ParseDomain(cp.Domain)
	if err != nil {
		return callpoint.Definition{}, err
	}
	param, err := resolver.ParseType(cp.Arg)
	if err != nil {
		return callpoint.Definition{}, err
	}
	def := callpoint.Definition{
		ID:       cp.ID,
		Domain:   d,
		Param:    param,
		EnumType: cp.Enum,
		Labels:   make([]callpoint.Label, len(cp.Labels)),
	}
	for i, l := range cp.Labels {
		def.Labels[i] = callpoint.Label{Text: l.Text, Null: l.Null}
	}
	return def, nil
}

// Definitions returns every call point in declaration order.
func (m *Manifest) Definitions() ([]callpoint.Definition, error) {
	defs := make([]callpoint.Definition, 0, len(m.CallPoints))
	for _, cp := range m.CallPoints {
		def, err := cp.Definition()
		if err != nil {
			return nil, fmt.Errorf("call point %s: %w", cp.ID, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// FromDefinition converts a definition back to manifest form.
func FromDefinition(d callpoint.Definition) CallPoint {
	cp := CallPoint{
		ID:     d.ID,
		Domain: d.Domain.String(),
		Arg:    d.Param.String(),
		Enum:   d.EnumType,
		Labels: make([]Label, len(d.Labels)),
	}
	for i, l := range d.Labels {
		cp.Labels[i] = Label{Text: l.Text, Null: l.Null}
	}
	return cp
}

// Source returns the constant source for the manifest's enumerated types:
// inline enums first, then .proto files, compiled-in protobuf enums and
// finally Go packages.
func (m *Manifest) Source() resolver.ConstantSource {
	chain := enums.Chain{enums.Static(m.Enums)}
	if len(m.Proto.Files) > 0 {
		imports := make([]string, len(m.Proto.ImportPaths))
		for i, p := range m.Proto.ImportPaths {
			imports[i] = m.resolve(p)
		}
		if len(imports) == 0 {
			imports = []string{m.resolve(".")}
		}
		chain = append(chain, enums.NewProtoFiles(imports, m.Proto.Files...))
	}
	chain = append(chain, enums.ProtoRegistry{}, enums.NewGoPackages(m.resolve(m.GoDir)))
	return chain
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.dir, p)
}
