package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	SessionServiceName = "gophauth.v1.SessionService"
	WhoamiMethod       = "/" + SessionServiceName + "/Whoami"
)

// SessionServer reports the verified subject of the calling token.
type SessionServer interface {
	Whoami(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// sessionServiceDesc is written by hand; the request and response reuse
// the protobuf well-known Empty and Struct messages.
var sessionServiceDesc = grpc.ServiceDesc{
	ServiceName: SessionServiceName,
	HandlerType: (*SessionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Whoami", Handler: whoamiHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func whoamiHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServer).Whoami(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: WhoamiMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SessionServer).Whoami(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Whoami returns the subject the token interceptor placed in ctx.
func (s *GRPCServer) Whoami(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	sub, ok := SubjectFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	return structpb.NewStruct(map[string]any{
		"accountId": sub.AccountID,
		"identity":  sub.Identity,
		"issuedAt":  sub.IssuedAt.UTC().Format(time.RFC3339),
		"expiresAt": sub.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
