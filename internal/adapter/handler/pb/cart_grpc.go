// Package pb holds the gRPC service descriptor for cartstore.v1.CartService.
//
// Requests and responses are google.protobuf.Struct values, so the service
// needs no generated message types; the descriptor below follows the layout
// protoc-gen-go-grpc produces.
package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	CartService_GetCart_FullMethodName        = "/cartstore.v1.CartService/GetCart"
	CartService_AddItem_FullMethodName        = "/cartstore.v1.CartService/AddItem"
	CartService_UpdateQuantity_FullMethodName = "/cartstore.v1.CartService/UpdateQuantity"
	CartService_RemoveItem_FullMethodName     = "/cartstore.v1.CartService/RemoveItem"
	CartService_ClearCart_FullMethodName      = "/cartstore.v1.CartService/ClearCart"
	CartService_WatchCart_FullMethodName      = "/cartstore.v1.CartService/WatchCart"

	CartService_GetWishlist_FullMethodName        = "/cartstore.v1.CartService/GetWishlist"
	CartService_AddToWishlist_FullMethodName      = "/cartstore.v1.CartService/AddToWishlist"
	CartService_RemoveFromWishlist_FullMethodName = "/cartstore.v1.CartService/RemoveFromWishlist"
)

type CartServiceClient interface {
	GetCart(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	AddItem(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdateQuantity(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RemoveItem(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ClearCart(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	WatchCart(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error)
	GetWishlist(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	AddToWishlist(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RemoveFromWishlist(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type cartServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCartServiceClient(cc grpc.ClientConnInterface) CartServiceClient {
	return &cartServiceClient{cc}
}

func (c *cartServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, cOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cartServiceClient) GetCart(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CartService_GetCart_FullMethodName, in, opts)
}

func (c *cartServiceClient) AddItem(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CartService_AddItem_FullMethodName, in, opts)
}

func (c *cartServiceClient) UpdateQuantity(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CartService_UpdateQuantity_FullMethodName, in, opts)
}

func (c *cartServiceClient) RemoveItem(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CartService_RemoveItem_FullMethodName, in, opts)
}

func (c *cartServiceClient) ClearCart(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CartService_ClearCart_FullMethodName, in, opts)
}

func (c *cartServiceClient) GetWishlist(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CartService_GetWishlist_FullMethodName, in, opts)
}

func (c *cartServiceClient) AddToWishlist(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CartService_AddToWishlist_FullMethodName, in, opts)
}

func (c *cartServiceClient) RemoveFromWishlist(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CartService_RemoveFromWishlist_FullMethodName, in, opts)
}

func (c *cartServiceClient) WatchCart(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	stream, err := c.cc.NewStream(ctx, &CartService_ServiceDesc.Streams[0], CartService_WatchCart_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[structpb.Struct, structpb.Struct]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type CartServiceServer interface {
	GetCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateQuantity(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClearCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WatchCart(*structpb.Struct, grpc.ServerStreamingServer[structpb.Struct]) error
	GetWishlist(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddToWishlist(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveFromWishlist(context.Context, *structpb.Struct) (*structpb.Struct, error)
	mustEmbedUnimplementedCartServiceServer()
}

// UnimplementedCartServiceServer must be embedded to have forward compatible implementations.
type UnimplementedCartServiceServer struct{}

func (UnimplementedCartServiceServer) GetCart(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetCart not implemented")
}
func (UnimplementedCartServiceServer) AddItem(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AddItem not implemented")
}
func (UnimplementedCartServiceServer) UpdateQuantity(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UpdateQuantity not implemented")
}
func (UnimplementedCartServiceServer) RemoveItem(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RemoveItem not implemented")
}
func (UnimplementedCartServiceServer) ClearCart(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ClearCart not implemented")
}
func (UnimplementedCartServiceServer) WatchCart(*structpb.Struct, grpc.ServerStreamingServer[structpb.Struct]) error {
	return status.Errorf(codes.Unimplemented, "method WatchCart not implemented")
}
func (UnimplementedCartServiceServer) GetWishlist(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetWishlist not implemented")
}
func (UnimplementedCartServiceServer) AddToWishlist(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AddToWishlist not implemented")
}
func (UnimplementedCartServiceServer) RemoveFromWishlist(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RemoveFromWishlist not implemented")
}
func (UnimplementedCartServiceServer) mustEmbedUnimplementedCartServiceServer() {}

func RegisterCartServiceServer(s grpc.ServiceRegistrar, srv CartServiceServer) {
	s.RegisterService(&CartService_ServiceDesc, srv)
}

type unaryMethod func(CartServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CartServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(CartServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func _CartService_WatchCart_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(structpb.Struct)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(CartServiceServer).WatchCart(m, &grpc.GenericServerStream[structpb.Struct, structpb.Struct]{ServerStream: stream})
}

var CartService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "cartstore.v1.CartService",
	HandlerType: (*CartServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetCart",
			Handler:    unaryHandler(CartService_GetCart_FullMethodName, CartServiceServer.GetCart),
		},
		{
			MethodName: "AddItem",
			Handler:    unaryHandler(CartService_AddItem_FullMethodName, CartServiceServer.AddItem),
		},
		{
			MethodName: "UpdateQuantity",
			Handler:    unaryHandler(CartService_UpdateQuantity_FullMethodName, CartServiceServer.UpdateQuantity),
		},
		{
			MethodName: "RemoveItem",
			Handler:    unaryHandler(CartService_RemoveItem_FullMethodName, CartServiceServer.RemoveItem),
		},
		{
			MethodName: "ClearCart",
			Handler:    unaryHandler(CartService_ClearCart_FullMethodName, CartServiceServer.ClearCart),
		},
		{
			MethodName: "GetWishlist",
			Handler:    unaryHandler(CartService_GetWishlist_FullMethodName, CartServiceServer.GetWishlist),
		},
		{
			MethodName: "AddToWishlist",
			Handler:    unaryHandler(CartService_AddToWishlist_FullMethodName, CartServiceServer.AddToWishlist),
		},
		{
			MethodName: "RemoveFromWishlist",
			Handler:    unaryHandler(CartService_RemoveFromWishlist_FullMethodName, CartServiceServer.RemoveFromWishlist),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchCart",
			Handler:       _CartService_WatchCart_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "cartstore/v1/cart.proto",
}
