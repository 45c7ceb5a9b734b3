package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"

	"github.com/oggyb/muzz-realtime/internal/config"
)

// GRPCServer serves the internal service-to-service API.
type GRPCServer struct {
	addr   string
	server *grpc.Server
	log    *slog.Logger
}

// NewGRPCServer builds a gRPC server and registers all provided services.
func NewGRPCServer(cfg *config.Config, log *slog.Logger, registrars ...Registrar) *GRPCServer {
	s := grpc.NewServer()
	for _, r := range registrars {
		r.Register(s)
	}
	return &GRPCServer{
		addr:   fmt.Sprintf("%s:%s", cfg.GRPC.Host, cfg.GRPC.Port),
		server: s,
		log:    log,
	}
}

// Start listens and serves until Stop. It blocks.
func (s *GRPCServer) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.log.Info("starting gRPC server", "addr", s.addr)
	return s.server.Serve(lis)
}

// Stop drains in-flight RPCs, or cuts them when ctx expires first.
func (s *GRPCServer) Stop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return ctx.Err()
	}
}
