package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	PointServiceName = "point.v1.PointService"

	PointService_GetPoint_FullMethodName     = "/point.v1.PointService/GetPoint"
	PointService_GetHistories_FullMethodName = "/point.v1.PointService/GetHistories"
	PointService_Charge_FullMethodName       = "/point.v1.PointService/Charge"
	PointService_Use_FullMethodName          = "/point.v1.PointService/Use"
)

// PointServiceServer 伺服端介面
type PointServiceServer interface {
	GetPoint(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHistories(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Charge(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Use(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedPointServiceServer 內嵌後未實作的方法回傳 Unimplemented
type UnimplementedPointServiceServer struct{}

func (UnimplementedPointServiceServer) GetPoint(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPoint not implemented")
}
func (UnimplementedPointServiceServer) GetHistories(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetHistories not implemented")
}
func (UnimplementedPointServiceServer) Charge(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Charge not implemented")
}
func (UnimplementedPointServiceServer) Use(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Use not implemented")
}

// RegisterPointServiceServer 註冊服務
func RegisterPointServiceServer(s grpc.ServiceRegistrar, srv PointServiceServer) {
	s.RegisterService(&PointService_ServiceDesc, srv)
}

type unaryCall func(PointServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryHandler 產生 grpc.MethodDesc 所需的 handler
func unaryHandler(fullMethod string, call unaryCall) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PointServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PointServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// PointService_ServiceDesc point.v1.PointService 的服務描述
var PointService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: PointServiceName,
	HandlerType: (*PointServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetPoint",
			Handler:    unaryHandler(PointService_GetPoint_FullMethodName, PointServiceServer.GetPoint),
		},
		{
			MethodName: "GetHistories",
			Handler:    unaryHandler(PointService_GetHistories_FullMethodName, PointServiceServer.GetHistories),
		},
		{
			MethodName: "Charge",
			Handler:    unaryHandler(PointService_Charge_FullMethodName, PointServiceServer.Charge),
		},
		{
			MethodName: "Use",
			Handler:    unaryHandler(PointService_Use_FullMethodName, PointServiceServer.Use),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "point/v1/point.proto",
}

// PointServiceClient 客戶端，回傳已解析的 UserPoint / History
type PointServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPointServiceClient(cc grpc.ClientConnInterface) *PointServiceClient {
	return &PointServiceClient{cc: cc}
}

func (c *PointServiceClient) GetPoint(ctx context.Context, userID int64, opts ...grpc.CallOption) (UserPoint, error) {
	return c.invokePoint(ctx, PointService_GetPoint_FullMethodName, NewUserRequest(userID), opts...)
}

func (c *PointServiceClient) Charge(ctx context.Context, userID, amount int64, opts ...grpc.CallOption) (UserPoint, error) {
	return c.invokePoint(ctx, PointService_Charge_FullMethodName, NewAmountRequest(userID, amount), opts...)
}

func (c *PointServiceClient) Use(ctx context.Context, userID, amount int64, opts ...grpc.CallOption) (UserPoint, error) {
	return c.invokePoint(ctx, PointService_Use_FullMethodName, NewAmountRequest(userID, amount), opts...)
}

func (c *PointServiceClient) GetHistories(ctx context.Context, userID int64, opts ...grpc.CallOption) ([]History, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PointService_GetHistories_FullMethodName, NewUserRequest(userID), out, opts...); err != nil {
		return nil, err
	}
	return ParseHistories(out)
}

func (c *PointServiceClient) invokePoint(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (UserPoint, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return UserPoint{}, err
	}
	return ParseUserPoint(out)
}
