package grpc_control

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Service and method names as they appear on the wire.
const (
	FeedControl_ServiceName = "tokenpulse.control.FeedControl"

	FeedControl_GetStatus_FullMethodName      = "/" + FeedControl_ServiceName + "/GetStatus"
	FeedControl_StepFeed_FullMethodName       = "/" + FeedControl_ServiceName + "/StepFeed"
	FeedControl_PauseFeed_FullMethodName      = "/" + FeedControl_ServiceName + "/PauseFeed"
	FeedControl_ResumeFeed_FullMethodName     = "/" + FeedControl_ServiceName + "/ResumeFeed"
	FeedControl_GetSettings_FullMethodName    = "/" + FeedControl_ServiceName + "/GetSettings"
	FeedControl_UpdateSettings_FullMethodName = "/" + FeedControl_ServiceName + "/UpdateSettings"
	FeedControl_SwitchSource_FullMethodName   = "/" + FeedControl_ServiceName + "/SwitchSource"
)

// -----------------------------------------------------------------------------
// Server API
// -----------------------------------------------------------------------------

// FeedControlServer is the server API for the FeedControl service.
// Messages are protobuf well-known types, so no generated code is needed.
type FeedControlServer interface {
	GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	StepFeed(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	PauseFeed(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ResumeFeed(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetSettings(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	UpdateSettings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SwitchSource(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedFeedControlServer can be embedded for forward compatibility.
type UnimplementedFeedControlServer struct{}

func (UnimplementedFeedControlServer) GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStatus not implemented")
}
func (UnimplementedFeedControlServer) StepFeed(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method StepFeed not implemented")
}
func (UnimplementedFeedControlServer) PauseFeed(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method PauseFeed not implemented")
}
func (UnimplementedFeedControlServer) ResumeFeed(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ResumeFeed not implemented")
}
func (UnimplementedFeedControlServer) GetSettings(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSettings not implemented")
}
func (UnimplementedFeedControlServer) UpdateSettings(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateSettings not implemented")
}
func (UnimplementedFeedControlServer) SwitchSource(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method SwitchSource not implemented")
}

// RegisterFeedControlServer attaches srv to a gRPC server.
func RegisterFeedControlServer(s grpc.ServiceRegistrar, srv FeedControlServer) {
	s.RegisterService(&FeedControl_ServiceDesc, srv)
}

// -----------------------------------------------------------------------------

func emptyHandler(method string, call func(FeedControlServer, context.Context, *emptypb.Empty) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FeedControlServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(FeedControlServer), ctx, req.(*emptypb.Empty))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func structHandler(method string, call func(FeedControlServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FeedControlServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(FeedControlServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// FeedControl_ServiceDesc is the grpc.ServiceDesc for the FeedControl service.
var FeedControl_ServiceDesc = grpc.ServiceDesc{
	ServiceName: FeedControl_ServiceName,
	HandlerType: (*FeedControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetStatus", Handler: emptyHandler(FeedControl_GetStatus_FullMethodName, FeedControlServer.GetStatus)},
		{MethodName: "StepFeed", Handler: emptyHandler(FeedControl_StepFeed_FullMethodName, FeedControlServer.StepFeed)},
		{MethodName: "PauseFeed", Handler: emptyHandler(FeedControl_PauseFeed_FullMethodName, FeedControlServer.PauseFeed)},
		{MethodName: "ResumeFeed", Handler: emptyHandler(FeedControl_ResumeFeed_FullMethodName, FeedControlServer.ResumeFeed)},
		{MethodName: "GetSettings", Handler: emptyHandler(FeedControl_GetSettings_FullMethodName, FeedControlServer.GetSettings)},
		{MethodName: "UpdateSettings", Handler: structHandler(FeedControl_UpdateSettings_FullMethodName, FeedControlServer.UpdateSettings)},
		{MethodName: "SwitchSource", Handler: structHandler(FeedControl_SwitchSource_FullMethodName, FeedControlServer.SwitchSource)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tokenpulse/control.proto",
}

// -----------------------------------------------------------------------------
// Client API
// -----------------------------------------------------------------------------

// FeedControlClient is the client API for the FeedControl service.
type FeedControlClient interface {
	GetStatus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	StepFeed(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	PauseFeed(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	ResumeFeed(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetSettings(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdateSettings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SwitchSource(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type feedControlClient struct {
	cc grpc.ClientConnInterface
}

func NewFeedControlClient(cc grpc.ClientConnInterface) FeedControlClient {
	return &feedControlClient{cc}
}

func (c *feedControlClient) invoke(ctx context.Context, method string, in interface{}, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *feedControlClient) GetStatus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FeedControl_GetStatus_FullMethodName, in, opts...)
}

func (c *feedControlClient) StepFeed(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FeedControl_StepFeed_FullMethodName, in, opts...)
}

func (c *feedControlClient) PauseFeed(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FeedControl_PauseFeed_FullMethodName, in, opts...)
}

func (c *feedControlClient) ResumeFeed(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FeedControl_ResumeFeed_FullMethodName, in, opts...)
}

func (c *feedControlClient) GetSettings(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FeedControl_GetSettings_FullMethodName, in, opts...)
}

func (c *feedControlClient) UpdateSettings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FeedControl_UpdateSettings_FullMethodName, in, opts...)
}

func (c *feedControlClient) SwitchSource(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FeedControl_SwitchSource_FullMethodName, in, opts...)
}
