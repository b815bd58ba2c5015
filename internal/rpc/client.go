package rpc

import (
	"context"
	"fmt"

	"fortio.org/safecast"
	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/funvibe/switchcase/internal/resolver"
)

// CallPointInfo describes a call point bound in a server.
type CallPointInfo struct {
	ID        string
	Domain    string
	Signature string
	Labels    []string
	EnumType  string
}

// Client calls a Dispatch server.
type Client struct {
	conn   grpc.ClientConnInterface
	closer func() error
	sd     *desc.ServiceDescriptor
}

// NewClient wraps an existing connection.
func NewClient(conn grpc.ClientConnInterface) (*Client, error) {
	sd, err := ServiceDescriptor()
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, closer: func() error { return nil }, sd: sd}, nil
}

// Dial connects to target. Without options the connection is plaintext.
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", target, err)
	}
	c, err := NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	c.closer = conn.Close
	return c, nil
}

// Close closes a connection opened by Dial.
func (c *Client) Close() error {
	return c.closer()
}

// Resolve classifies v against call point id on the server.
func (c *Client) Resolve(ctx context.Context, id string, v resolver.Value) (resolver.Outcome, error) {
	req := c.resolveRequest(id)
	switch v.Kind() {
	case resolver.NullValue:
		req.SetFieldByName("null_value", true)
	case resolver.IntValue:
		req.SetFieldByName("int_value", v.IntValue())
	case resolver.TextValue:
		req.SetFieldByName("text_value", v.TextValue())
	case resolver.OrdinalValue:
		ord, err := safecast.Convert[int32](v.OrdinalValue())
		if err != nil {
			return resolver.Outcome{}, fmt.Errorf("ordinal %d: %w", v.OrdinalValue(), err)
		}
		req.SetFieldByName("ordinal", ord)
	}
	return c.invokeResolve(ctx, req)
}

// ResolveConstant classifies the enumerated constant name against call
// point id; the server converts the name to its ordinal.
func (c *Client) ResolveConstant(ctx context.Context, id, name string) (resolver.Outcome, error) {
	req := c.resolveRequest(id)
	req.SetFieldByName("constant", name)
	return c.invokeResolve(ctx, req)
}

func (c *Client) resolveRequest(id string) *dynamic.Message {
	req := dynamic.NewMessage(c.sd.FindMethodByName(resolveMethod).GetInputType())
	req.SetFieldByName("call_point", id)
	return req
}

func (c *Client) invokeResolve(ctx context.Context, req *dynamic.Message) (resolver.Outcome, error) {
	resp := dynamic.NewMessage(c.sd.FindMethodByName(resolveMethod).GetOutputType())
	if err := c.conn.Invoke(ctx, fullMethod(resolveMethod), req, resp); err != nil {
		return resolver.Outcome{}, err
	}
	kind, err := outcomeKind(resp.GetFieldByName("outcome").(int32))
	if err != nil {
		return resolver.Outcome{}, err
	}
	index := resp.GetFieldByName("index").(int32)
	return resolver.Outcome{Kind: kind, Index: int(index)}, nil
}

// ListCallPoints returns the call points bound in the server, ordered by id.
func (c *Client) ListCallPoints(ctx context.Context) ([]CallPointInfo, error) {
	md := c.sd.FindMethodByName(listMethod)
	req := dynamic.NewMessage(md.GetInputType())
	resp := dynamic.NewMessage(md.GetOutputType())
	if err := c.conn.Invoke(ctx, fullMethod(listMethod), req, resp); err != nil {
		return nil, err
	}

	items, _ := resp.GetFieldByName("call_points").([]any)
	infos := make([]CallPointInfo, 0, len(items))
	for _, item := range items {
		m := item.(*dynamic.Message)
		info := CallPointInfo{
			ID:        m.GetFieldByName("id").(string),
			Domain:    m.GetFieldByName("domain").(string),
			Signature: m.GetFieldByName("signature").(string),
			EnumType:  m.GetFieldByName("enum_type").(string),
		}
		labels, _ := m.GetFieldByName("labels").([]any)
		for _, l := range labels {
			info.Labels = append(info.Labels, l.(string))
		}
		infos = append(infos, info)
	}
	return infos, nil
}
