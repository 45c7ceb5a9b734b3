package match

import (
	"google.golang.org/grpc"

	pb "github.com/oggyb/muzz-realtime/internal/proto/matchpb"
)

// Registrar ties the Match service into the gRPC server
type Registrar struct {
	service *Service
}

func NewRegistrar(service *Service) *Registrar {
	return &Registrar{service: service}
}

// Register attaches the Match service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	pb.RegisterMatchServiceServer(s, r.service)
}
