// Package grpc runs the gRPC sidecar: the standard health service and a
// token-protected session service behind an access token interceptor.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// DefaultProbeInterval is how often the store is pinged to refresh health.
const DefaultProbeInterval = 10 * time.Second

// Pinger reports store reachability; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type GRPCServer struct {
	address       string
	logger        logging.Logger
	tokens        TokenVerifier
	store         Pinger
	health        *health.Server
	probeInterval time.Duration
}

func NewGRPCServer(a string, l logging.Logger, tokens TokenVerifier, store Pinger) *GRPCServer {
	return &GRPCServer{
		address:       a,
		logger:        l.With("module", "grpc_server"),
		tokens:        tokens,
		store:         store,
		health:        health.NewServer(),
		probeInterval: DefaultProbeInterval,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is done, then reports NOT_SERVING and
// stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)
	srv.RegisterService(&sessionServiceDesc, s)
	reflection.Register(srv)

	s.probe(ctx)
	go func() {
		ticker := time.NewTicker(s.probeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info(ctx, "Stopping gRPC server...")
				s.health.Shutdown()
				srv.GracefulStop()
				return
			case <-ticker.C:
				s.probe(ctx)
			}
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}

// probe sets the overall health status from a store ping.
func (s *GRPCServer) probe(ctx context.Context) {
	st := healthpb.HealthCheckResponse_SERVING
	if s.store != nil {
		pctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := s.store.PingContext(pctx); err != nil {
			s.logger.Warn(ctx, "store unreachable", "error", err)
			st = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", st)
}
