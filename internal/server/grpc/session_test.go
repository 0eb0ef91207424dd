package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func serveBuf(t *testing.T, s *GRPCServer) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func whoami(ctx context.Context, conn *grpc.ClientConn) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := conn.Invoke(ctx, WhoamiMethod, &emptypb.Empty{}, out)
	return out, err
}

func TestWhoami_ReturnsVerifiedSubject(t *testing.T) {
	s, ts := newTestServer(t)
	conn := serveBuf(t, s)

	token, sub, err := ts.Issue("acc-1", "09171234567")
	require.NoError(t, err)

	for _, header := range []string{"Bearer " + token, token} {
		ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", header)
		out, err := whoami(ctx, conn)
		require.NoError(t, err)

		fields := out.AsMap()
		assert.Equal(t, "acc-1", fields["accountId"])
		assert.Equal(t, "09171234567", fields["identity"])
		assert.Equal(t, sub.ExpiresAt.UTC().Format(time.RFC3339), fields["expiresAt"])
	}
}

func TestWhoami_RejectsBadTokens(t *testing.T) {
	s, ts := newTestServer(t)
	conn := serveBuf(t, s)

	token, _, err := ts.Issue("acc-1", "09171234567")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		msg    string
	}{
		{"missing", "", "missing token"},
		{"scheme only", "Bearer", "invalid token"},
		{"garbage", "Bearer not-a-token", "invalid token"},
		{"tampered", "Bearer " + token + "x", "invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.header != "" {
				ctx = metadata.AppendToOutgoingContext(ctx, "authorization", tt.header)
			}
			_, err := whoami(ctx, conn)
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, codes.Unauthenticated, st.Code())
			assert.Equal(t, tt.msg, st.Message())
		})
	}
}

func TestWhoami_WithoutInterceptorHasNoSubject(t *testing.T) {
	s, _ := newTestServer(t)

	_, err := s.Whoami(context.Background(), &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
