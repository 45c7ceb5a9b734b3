package matchpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	MatchService_RecordLike_FullMethodName      = "/match.MatchService/RecordLike"
	MatchService_Unlike_FullMethodName          = "/match.MatchService/Unlike"
	MatchService_ListMatches_FullMethodName     = "/match.MatchService/ListMatches"
	MatchService_CountLikedYou_FullMethodName   = "/match.MatchService/CountLikedYou"
	MatchService_ListLikesSent_FullMethodName   = "/match.MatchService/ListLikesSent"
	MatchService_ListLikedYou_FullMethodName    = "/match.MatchService/ListLikedYou"
	MatchService_ListNewLikedYou_FullMethodName = "/match.MatchService/ListNewLikedYou"
)

// MatchServiceClient is the client API for MatchService.
type MatchServiceClient interface {
	RecordLike(ctx context.Context, in *RecordLikeRequest, opts ...grpc.CallOption) (*RecordLikeResponse, error)
	Unlike(ctx context.Context, in *UnlikeRequest, opts ...grpc.CallOption) (*UnlikeResponse, error)
	ListMatches(ctx context.Context, in *ListMatchesRequest, opts ...grpc.CallOption) (*ListMatchesResponse, error)
	CountLikedYou(ctx context.Context, in *CountLikedYouRequest, opts ...grpc.CallOption) (*CountLikedYouResponse, error)
	ListLikesSent(ctx context.Context, in *ListLikesRequest, opts ...grpc.CallOption) (*ListLikesResponse, error)
	ListLikedYou(ctx context.Context, in *ListLikesRequest, opts ...grpc.CallOption) (*ListLikesResponse, error)
	ListNewLikedYou(ctx context.Context, in *ListLikesRequest, opts ...grpc.CallOption) (*ListLikesResponse, error)
}

type matchServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMatchServiceClient(cc grpc.ClientConnInterface) MatchServiceClient {
	return &matchServiceClient{cc}
}

func callOpts(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func (c *matchServiceClient) RecordLike(ctx context.Context, in *RecordLikeRequest, opts ...grpc.CallOption) (*RecordLikeResponse, error) {
	out := new(RecordLikeResponse)
	if err := c.cc.Invoke(ctx, MatchService_RecordLike_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *matchServiceClient) Unlike(ctx context.Context, in *UnlikeRequest, opts ...grpc.CallOption) (*UnlikeResponse, error) {
	out := new(UnlikeResponse)
	if err := c.cc.Invoke(ctx, MatchService_Unlike_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *matchServiceClient) ListMatches(ctx context.Context, in *ListMatchesRequest, opts ...grpc.CallOption) (*ListMatchesResponse, error) {
	out := new(ListMatchesResponse)
	if err := c.cc.Invoke(ctx, MatchService_ListMatches_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *matchServiceClient) CountLikedYou(ctx context.Context, in *CountLikedYouRequest, opts ...grpc.CallOption) (*CountLikedYouResponse, error) {
	out := new(CountLikedYouResponse)
	if err := c.cc.Invoke(ctx, MatchService_CountLikedYou_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *matchServiceClient) ListLikesSent(ctx context.Context, in *ListLikesRequest, opts ...grpc.CallOption) (*ListLikesResponse, error) {
	out := new(ListLikesResponse)
	if err := c.cc.Invoke(ctx, MatchService_ListLikesSent_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *matchServiceClient) ListLikedYou(ctx context.Context, in *ListLikesRequest, opts ...grpc.CallOption) (*ListLikesResponse, error) {
	out := new(ListLikesResponse)
	if err := c.cc.Invoke(ctx, MatchService_ListLikedYou_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *matchServiceClient) ListNewLikedYou(ctx context.Context, in *ListLikesRequest, opts ...grpc.CallOption) (*ListLikesResponse, error) {
	out := new(ListLikesResponse)
	if err := c.cc.Invoke(ctx, MatchService_ListNewLikedYou_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// MatchServiceServer is the server API for MatchService.
// Implementations must embed UnimplementedMatchServiceServer.
type MatchServiceServer interface {
	RecordLike(context.Context, *RecordLikeRequest) (*RecordLikeResponse, error)
	Unlike(context.Context, *UnlikeRequest) (*UnlikeResponse, error)
	ListMatches(context.Context, *ListMatchesRequest) (*ListMatchesResponse, error)
	CountLikedYou(context.Context, *CountLikedYouRequest) (*CountLikedYouResponse, error)
	ListLikesSent(context.Context, *ListLikesRequest) (*ListLikesResponse, error)
	ListLikedYou(context.Context, *ListLikesRequest) (*ListLikesResponse, error)
	ListNewLikedYou(context.Context, *ListLikesRequest) (*ListLikesResponse, error)
	mustEmbedUnimplementedMatchServiceServer()
}

type UnimplementedMatchServiceServer struct{}

func (UnimplementedMatchServiceServer) RecordLike(context.Context, *RecordLikeRequest) (*RecordLikeResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RecordLike not implemented")
}
func (UnimplementedMatchServiceServer) Unlike(context.Context, *UnlikeRequest) (*UnlikeResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Unlike not implemented")
}
func (UnimplementedMatchServiceServer) ListMatches(context.Context, *ListMatchesRequest) (*ListMatchesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListMatches not implemented")
}
func (UnimplementedMatchServiceServer) CountLikedYou(context.Context, *CountLikedYouRequest) (*CountLikedYouResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CountLikedYou not implemented")
}
func (UnimplementedMatchServiceServer) ListLikesSent(context.Context, *ListLikesRequest) (*ListLikesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListLikesSent not implemented")
}
func (UnimplementedMatchServiceServer) ListLikedYou(context.Context, *ListLikesRequest) (*ListLikesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListLikedYou not implemented")
}
func (UnimplementedMatchServiceServer) ListNewLikedYou(context.Context, *ListLikesRequest) (*ListLikesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListNewLikedYou not implemented")
}
func (UnimplementedMatchServiceServer) mustEmbedUnimplementedMatchServiceServer() {}

func RegisterMatchServiceServer(s grpc.ServiceRegistrar, srv MatchServiceServer) {
	s.RegisterService(&MatchService_ServiceDesc, srv)
}

func _MatchService_RecordLike_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RecordLikeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MatchServiceServer).RecordLike(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MatchService_RecordLike_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MatchServiceServer).RecordLike(ctx, req.(*RecordLikeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MatchService_Unlike_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UnlikeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MatchServiceServer).Unlike(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MatchService_Unlike_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MatchServiceServer).Unlike(ctx, req.(*UnlikeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MatchService_ListMatches_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListMatchesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MatchServiceServer).ListMatches(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MatchService_ListMatches_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MatchServiceServer).ListMatches(ctx, req.(*ListMatchesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MatchService_CountLikedYou_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CountLikedYouRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MatchServiceServer).CountLikedYou(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MatchService_CountLikedYou_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MatchServiceServer).CountLikedYou(ctx, req.(*CountLikedYouRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MatchService_ListLikesSent_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListLikesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MatchServiceServer).ListLikesSent(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MatchService_ListLikesSent_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MatchServiceServer).ListLikesSent(ctx, req.(*ListLikesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MatchService_ListLikedYou_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListLikesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MatchServiceServer).ListLikedYou(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MatchService_ListLikedYou_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MatchServiceServer).ListLikedYou(ctx, req.(*ListLikesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MatchService_ListNewLikedYou_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListLikesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MatchServiceServer).ListNewLikedYou(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MatchService_ListNewLikedYou_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MatchServiceServer).ListNewLikedYou(ctx, req.(*ListLikesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// MatchService_ServiceDesc is the grpc.ServiceDesc for MatchService.
var MatchService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "match.MatchService",
	HandlerType: (*MatchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RecordLike", Handler: _MatchService_RecordLike_Handler},
		{MethodName: "Unlike", Handler: _MatchService_Unlike_Handler},
		{MethodName: "ListMatches", Handler: _MatchService_ListMatches_Handler},
		{MethodName: "CountLikedYou", Handler: _MatchService_CountLikedYou_Handler},
		{MethodName: "ListLikesSent", Handler: _MatchService_ListLikesSent_Handler},
		{MethodName: "ListLikedYou", Handler: _MatchService_ListLikedYou_Handler},
		{MethodName: "ListNewLikedYou", Handler: _MatchService_ListNewLikedYou_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "match.proto",
}
