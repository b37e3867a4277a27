package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey        = "forge"
	serviceName         = "forge.provider.v1.TaskProvider"
	jsonCodecName       = "json"
	methodGetMetadata   = "/" + serviceName + "/GetMetadata"
	methodListPending   = "/" + serviceName + "/ListPending"
	methodMarkCompleted = "/" + serviceName + "/MarkCompleted"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "FORGE_PLUGIN",
	MagicCookieValue: "forge",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type TaskRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	DurationMin int    `json:"duration_min"`
	Energy      string `json:"energy"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

type ListPendingResponse struct {
	Tasks []TaskRecord `json:"tasks"`
}

type MarkCompletedRequest struct {
	TaskID string `json:"task_id"`
}

type MarkCompletedResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

type TaskProviderServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	ListPending(ctx context.Context, in *Empty) (*ListPendingResponse, error)
	MarkCompleted(ctx context.Context, in *MarkCompletedRequest) (*MarkCompletedResponse, error)
}

type TaskProviderClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	ListPending(ctx context.Context) (*ListPendingResponse, error)
	MarkCompleted(ctx context.Context, in *MarkCompletedRequest) (*MarkCompletedResponse, error)
}

type taskProviderClient struct {
	conn *grpc.ClientConn
}

func NewTaskProviderClient(conn *grpc.ClientConn) TaskProviderClient {
	return &taskProviderClient{conn: conn}
}

func (c *taskProviderClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *taskProviderClient) ListPending(ctx context.Context) (*ListPendingResponse, error) {
	out := &ListPendingResponse{}
	if err := c.conn.Invoke(ctx, methodListPending, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *taskProviderClient) MarkCompleted(ctx context.Context, in *MarkCompletedRequest) (*MarkCompletedResponse, error) {
	out := &MarkCompletedResponse{}
	if err := c.conn.Invoke(ctx, methodMarkCompleted, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterTaskProviderServer(server grpc.ServiceRegistrar, impl TaskProviderServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*TaskProviderServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "ListPending",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.ListPending(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodListPending}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.ListPending(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "MarkCompleted",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &MarkCompletedRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.MarkCompleted(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodMarkCompleted}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*MarkCompletedRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.MarkCompleted(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/provider-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl TaskProviderServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterTaskProviderServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewTaskProviderClient(conn), nil
}

func PluginMap(impl TaskProviderServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
