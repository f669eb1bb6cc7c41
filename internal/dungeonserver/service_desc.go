package dungeonserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Full method names of api/proto/dungeon/v1/dungeon.proto.
const (
	serviceName       = "dungeon.v1.DungeonService"
	generateMethod    = "/" + serviceName + "/Generate"
	getLayoutMethod   = "/" + serviceName + "/GetLayout"
	protoMetadataPath = "dungeon/v1/dungeon.proto"
)

// DungeonServiceServer is the server API for DungeonService.
type DungeonServiceServer interface {
	Generate(context.Context, *wrapperspb.UInt64Value) (*structpb.Struct, error)
	GetLayout(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// ServiceDesc describes DungeonService for grpc.Server.RegisterService. Both
// RPCs use well-known message types, so the default proto codec applies.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*DungeonServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Generate", Handler: generateHandler},
		{MethodName: "GetLayout", Handler: getLayoutHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: protoMetadataPath,
}

// RegisterDungeonServiceServer registers srv on s.
func RegisterDungeonServiceServer(s grpc.ServiceRegistrar, srv DungeonServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func generateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.UInt64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DungeonServiceServer).Generate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: generateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DungeonServiceServer).Generate(ctx, req.(*wrapperspb.UInt64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func getLayoutHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DungeonServiceServer).GetLayout(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getLayoutMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DungeonServiceServer).GetLayout(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls DungeonService over a client connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Generate requests a new layout. seed 0 asks for fresh randomness.
func (c *Client) Generate(ctx context.Context, seed uint64, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, generateMethod, wrapperspb.UInt64(seed), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetLayout fetches a stored layout by ID.
func (c *Client) GetLayout(ctx context.Context, id string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getLayoutMethod, wrapperspb.String(id), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
