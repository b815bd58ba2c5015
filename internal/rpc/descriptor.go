// Package rpc exposes bound call points over gRPC. The Dispatch service is
// described by the embedded dispatch.proto and served with dynamic messages,
// so no generated code is involved.
package rpc

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"

	"github.com/funvibe/switchcase/internal/resolver"
)

const (
	protoFile   = "switchcase/v1/dispatch.proto"
	ServiceName = "switchcase.v1.Dispatch"

	resolveMethod = "Resolve"
	listMethod    = "ListCallPoints"
)

//go:embed dispatch.proto
var dispatchProto string

var loadService = sync.OnceValues(func() (*desc.ServiceDescriptor, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{protoFile: dispatchProto}),
	}
	fds, err := parser.ParseFiles(protoFile)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", protoFile, err)
	}
	sd := fds[0].FindService(ServiceName)
	if sd == nil {
		return nil, fmt.Errorf("%s: service %s not found", protoFile, ServiceName)
	}
	return sd, nil
})

// ServiceDescriptor returns the parsed Dispatch service.
func ServiceDescriptor() (*desc.ServiceDescriptor, error) {
	return loadService()
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// Wire numbers of the Outcome enum.
const (
	outcomeUnspecified int32 = iota
	outcomeNull
	outcomeMatched
	outcomeNoMatch
)

func outcomeNumber(k resolver.OutcomeKind) int32 {
	switch k {
	case resolver.NullInput:
		return outcomeNull
	case resolver.MatchedIndex:
		return outcomeMatched
	case resolver.NoMatch:
		return outcomeNoMatch
	}
	return outcomeUnspecified
}

func outcomeKind(n int32) (resolver.OutcomeKind, error) {
	switch n {
	case outcomeNull:
		return resolver.NullInput, nil
	case outcomeMatched:
		return resolver.MatchedIndex, nil
	case outcomeNoMatch:
		return resolver.NoMatch, nil
	}
	return 0, fmt.Errorf("unexpected outcome %d", n)
}
