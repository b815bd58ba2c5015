package rpc

import (
	"context"
	"io"
	"log"
	"strconv"

	"fortio.org/safecast"
	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/funvibe/switchcase/internal/binding"
	"github.com/funvibe/switchcase/internal/enums"
	"github.com/funvibe/switchcase/internal/resolver"
)

// Server implements Dispatch over the handles of a binding cache. Only call
// points already bound in the cache are served.
type Server struct {
	cache  *binding.Cache
	src    resolver.ConstantSource
	sd     *desc.ServiceDescriptor
	logger *log.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *log.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a server over cache. src converts constant names in
// requests to ordinals; it may be nil when clients only send ordinals.
func NewServer(cache *binding.Cache, src resolver.ConstantSource, opts ...ServerOption) (*Server, error) {
	sd, err := ServiceDescriptor()
	if err != nil {
		return nil, err
	}
	s := &Server{cache: cache, src: src, sd: sd, logger: log.New(io.Discard, "", 0)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type unaryFunc func(ctx context.Context, in *dynamic.Message) (*dynamic.Message, error)

// ServiceDesc builds the grpc service description of Dispatch.
func (s *Server) ServiceDesc() *grpc.ServiceDesc {
	handlers := map[string]unaryFunc{
		resolveMethod: s.resolve,
		listMethod:    s.list,
	}
	gd := &grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*any)(nil),
		Metadata:    s.sd.GetFile().GetName(),
	}
	for _, md := range s.sd.GetMethods() {
		h, ok := handlers[md.GetName()]
		if !ok {
			continue
		}
		gd.Methods = append(gd.Methods, grpc.MethodDesc{
			MethodName: md.GetName(),
			Handler:    unaryHandler(md, h),
		})
	}
	return gd
}

// Register adds the Dispatch service to g.
func (s *Server) Register(g *grpc.Server) {
	g.RegisterService(s.ServiceDesc(), s)
}

func unaryHandler(md *desc.MethodDescriptor, h unaryFunc) grpc.MethodHandler {
	full := fullMethod(md.GetName())
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := dynamic.NewMessage(md.GetInputType())
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return h(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return h(ctx, req.(*dynamic.Message))
		})
	}
}

func (s *Server) resolve(ctx context.Context, in *dynamic.Message) (*dynamic.Message, error) {
	id, _ := in.GetFieldByName("call_point").(string)
	h, ok := s.cache.Lookup(id)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "call point %q is not bound", id)
	}

	v, err := s.requestValue(ctx, h.Resolver(), in)
	if err != nil {
		return nil, err
	}
	out := h.Resolve(v)
	index, err := safecast.Convert[int32](out.Index)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "index %d of %s: %v", out.Index, id, err)
	}
	s.logger.Printf("[rpc] Resolve %s %v -> %v", id, v, out)

	resp := dynamic.NewMessage(s.sd.FindMethodByName(resolveMethod).GetOutputType())
	resp.SetFieldByName("index", index)
	resp.SetFieldByName("outcome", outcomeNumber(out.Kind))
	return resp, nil
}

// requestValue extracts the oneof value of a ResolveRequest.
func (s *Server) requestValue(ctx context.Context, r *resolver.Resolver, in *dynamic.Message) (resolver.Value, error) {
	var (
		fd  *desc.FieldDescriptor
		val any
	)
	for _, choice := range in.GetMessageDescriptor().GetOneOfs()[0].GetChoices() {
		if in.HasField(choice) {
			fd, val = choice, in.GetField(choice)
			break
		}
	}
	if fd == nil {
		return resolver.Value{}, status.Error(codes.InvalidArgument, "value is required")
	}
	switch fd.GetName() {
	case "int_value":
		return resolver.Integer(val.(int64)), nil
	case "text_value":
		return resolver.Text(val.(string)), nil
	case "ordinal":
		return resolver.Ordinal(int(val.(int32))), nil
	case "null_value":
		if !val.(bool) {
			return resolver.Value{}, status.Error(codes.InvalidArgument, "null_value must be true")
		}
		return resolver.Null(), nil
	case "constant":
		if r.Domain() != resolver.Enumerated {
			return resolver.Value{}, status.Errorf(codes.InvalidArgument, "constant given for %s call point", r.Domain())
		}
		if s.src == nil {
			return resolver.Value{}, status.Error(codes.FailedPrecondition, "server has no constant source")
		}
		ord, err := enums.Ordinal(ctx, s.src, r.TypeName(), val.(string))
		if err != nil {
			return resolver.Value{}, status.Errorf(codes.Internal, "constants of %s: %v", r.TypeName(), err)
		}
		return resolver.Ordinal(ord), nil
	}
	return resolver.Value{}, status.Errorf(codes.InvalidArgument, "unsupported value field %s", fd.GetName())
}

func (s *Server) list(_ context.Context, _ *dynamic.Message) (*dynamic.Message, error) {
	out := s.sd.FindMethodByName(listMethod).GetOutputType()
	infoType := out.FindFieldByName("call_points").GetMessageType()

	resp := dynamic.NewMessage(out)
	for _, h := range s.cache.Handles() {
		r := h.Resolver()
		info := dynamic.NewMessage(infoType)
		info.SetFieldByName("id", h.ID())
		info.SetFieldByName("domain", r.Domain().String())
		info.SetFieldByName("signature", r.Signature().String())
		info.SetFieldByName("enum_type", r.TypeName())
		for _, l := range labelTexts(r.Labels()) {
			info.AddRepeatedFieldByName("labels", l)
		}
		resp.AddRepeatedFieldByName("call_points", info)
	}
	return resp, nil
}

func labelTexts(ls resolver.LabelSet) []string {
	if ls.Domain() != resolver.Integral {
		return ls.Texts()
	}
	ints := ls.Ints()
	texts := make([]string, len(ints))
	for i, v := range ints {
		texts[i] = strconv.FormatInt(v, 10)
	}
	return texts
}
