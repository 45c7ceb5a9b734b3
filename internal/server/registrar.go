package server

import (
	"github.com/gofiber/fiber/v2"
	"google.golang.org/grpc"
)

// Registrar is a common interface for all gRPC service registrars
type Registrar interface {
	Register(s *grpc.Server)
}

// RouteRegistrar mounts HTTP routes behind authentication.
type RouteRegistrar interface {
	RegisterRoutes(r fiber.Router)
}
