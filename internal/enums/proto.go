package enums

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
)

// ProtoRegistry resolves fully-qualified protobuf enum names against a file
// registry, protoregistry.GlobalFiles when Files is nil.
type ProtoRegistry struct {
	Files *protoregistry.Files
}

func (p ProtoRegistry) Constants(_ context.Context, typeName string) ([]string, error) {
	files := p.Files
	if files == nil {
		files = protoregistry.GlobalFiles
	}
	d, err := files.FindDescriptorByName(protoreflect.FullName(typeName))
	if errors.Is(err, protoregistry.NotFound) {
		return nil, unknownType(typeName)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", typeName, err)
	}
	ed, ok := d.(protoreflect.EnumDescriptor)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an enum", ErrUnknownType, typeName)
	}
	values := ed.Values()
	names := make([]string, values.Len())
	for i := 0; i < values.Len(); i++ {
		names[i] = string(values.Get(i).Name())
	}
	return names, nil
}

// EnumOrdinal returns the declaration index of a protobuf enum value, or -1
// when its number is not declared (open enums accept any number).
func EnumOrdinal(e protoreflect.Enum) int {
	v := e.Descriptor().Values().ByNumber(e.Number())
	if v == nil {
		return -1
	}
	return v.Index()
}

// ProtoFiles resolves protobuf enum names against .proto files parsed on
// first use.
type ProtoFiles struct {
	// ImportPaths are searched for Files and their imports.
	ImportPaths []string
	// Files are the .proto files to parse, relative to ImportPaths.
	Files []string
	// Accessor, when set, replaces disk access (in-memory sources).
	Accessor protoparse.FileAccessor

	once sync.Once
	fds  []*desc.FileDescriptor
	err  error
}

// NewProtoFiles returns a source over files found under importPaths.
func NewProtoFiles(importPaths []string, files ...string) *ProtoFiles {
	return &ProtoFiles{ImportPaths: importPaths, Files: files}
}

func (p *ProtoFiles) load() ([]*desc.FileDescriptor, error) {
	p.once.Do(func() {
		parser := protoparse.Parser{
			ImportPaths: p.ImportPaths,
			Accessor:    p.Accessor,
		}
		if len(parser.ImportPaths) == 0 {
			parser.ImportPaths = []string{"."}
		}
		p.fds, p.err = parser.ParseFiles(p.Files...)
		if p.err != nil {
			p.err = fmt.Errorf("parsing proto files: %w", p.err)
		}
	})
	return p.fds, p.err
}

func (p *ProtoFiles) Constants(_ context.Context, typeName string) ([]string, error) {
	fds, err := p.load()
	if err != nil {
		return nil, err
	}
	for _, fd := range fds {
		ed := findEnum(fd, typeName)
		if ed == nil {
			continue
		}
		values := ed.GetValues()
		names := make([]string, len(values))
		for i, v := range values {
			names[i] = v.GetName()
		}
		return names, nil
	}
	return nil, unknownType(typeName)
}

// findEnum looks in fd and, transitively, in its imports.
func findEnum(fd *desc.FileDescriptor, typeName string) *desc.EnumDescriptor {
	if ed := fd.FindEnum(typeName); ed != nil {
		return ed
	}
	for _, dep := range fd.GetDependencies() {
		if ed := findEnum(dep, typeName); ed != nil {
			return ed
		}
	}
	return nil
}
