package grpc_control

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Messages are protobuf well-known types, so the service needs no generated
// message code:
//
//	service HubControl {
//	  rpc Status(google.protobuf.Empty) returns (google.protobuf.Struct);
//	  rpc Replenish(google.protobuf.ListValue) returns (google.protobuf.Int32Value);
//	  rpc ListPool(google.protobuf.Empty) returns (google.protobuf.ListValue);
//	}

const (
	ServiceName = "pricerelay.control.v1.HubControl"

	statusMethod    = "/" + ServiceName + "/Status"
	replenishMethod = "/" + ServiceName + "/Replenish"
	listPoolMethod  = "/" + ServiceName + "/ListPool"
)

// -----------------------------------------------------------------------------
// Server side
// -----------------------------------------------------------------------------

type HubControlServer interface {
	Status(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Replenish(context.Context, *structpb.ListValue) (*wrapperspb.Int32Value, error)
	ListPool(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
}

func RegisterHubControlServer(s grpc.ServiceRegistrar, srv HubControlServer) {
	s.RegisterService(&HubControl_ServiceDesc, srv)
}

var HubControl_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HubControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Status", Handler: statusHandler},
		{MethodName: "Replenish", Handler: replenishHandler},
		{MethodName: "ListPool", Handler: listPoolHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pricerelay/control/v1/hub_control.proto",
}

// -----------------------------------------------------------------------------

func statusHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HubControlServer).Status(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: statusMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(HubControlServer).Status(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func replenishHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.ListValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HubControlServer).Replenish(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: replenishMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(HubControlServer).Replenish(ctx, req.(*structpb.ListValue))
	}
	return interceptor(ctx, in, info, handler)
}

func listPoolHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HubControlServer).ListPool(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listPoolMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(HubControlServer).ListPool(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// -----------------------------------------------------------------------------
// Client side
// -----------------------------------------------------------------------------

type HubControlClient struct {
	cc grpc.ClientConnInterface
}

func NewHubControlClient(cc grpc.ClientConnInterface) *HubControlClient {
	return &HubControlClient{cc: cc}
}

func (c *HubControlClient) Status(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, statusMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HubControlClient) Replenish(ctx context.Context, in *structpb.ListValue, opts ...grpc.CallOption) (*wrapperspb.Int32Value, error) {
	out := new(wrapperspb.Int32Value)
	if err := c.cc.Invoke(ctx, replenishMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HubControlClient) ListPool(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, listPoolMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
