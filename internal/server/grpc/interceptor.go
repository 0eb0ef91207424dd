package grpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// TokenVerifier is satisfied by *auth.TokenService.
type TokenVerifier interface {
	Verify(token string) (auth.Subject, bool)
}

type ctxKey string

const subjectKey ctxKey = "subject"

// authMetadataKey is the lower-cased Authorization header as gRPC metadata.
var authMetadataKey = strings.ToLower(common.AuthorizationHeaderName)

// publicMethodPrefixes need no token.
var publicMethodPrefixes = []string{
	"/grpc.health.v1.Health/",
	"/grpc.reflection.",
}

// SubjectFromContext returns the subject placed by the token interceptor.
func SubjectFromContext(ctx context.Context) (auth.Subject, bool) {
	sub, ok := ctx.Value(subjectKey).(auth.Subject)
	return sub, ok
}

func isPublic(method string) bool {
	for _, p := range publicMethodPrefixes {
		if strings.HasPrefix(method, p) {
			return true
		}
	}
	return false
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if isPublic(info.FullMethod) {
		return handler(ctx, req)
	}

	var token string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(authMetadataKey); len(values) > 0 {
			token = strings.TrimSpace(values[0])
		}
	}
	if scheme, rest, found := strings.Cut(token, " "); found && strings.EqualFold(scheme, common.BearerScheme) {
		token = strings.TrimSpace(rest)
	}
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	sub, ok := s.tokens.Verify(token)
	if !ok {
		s.logger.Debug(ctx, "rejected grpc call", "method", info.FullMethod)
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	return handler(context.WithValue(ctx, subjectKey, sub), req)
}
