package app

import (
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

const healthServiceName = "featurecache.v1.TileCache"

// healthServer answers the standard gRPC health protocol for orchestrators
// that probe over gRPC instead of HTTP.
type healthServer struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
}

func newHealthServer(port string) (*healthServer, error) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, err
	}

	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	hs.SetServingStatus(healthServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &healthServer{
		listener:   listener,
		grpcServer: grpcServer,
		health:     hs,
	}, nil
}

func (s *healthServer) Addr() string {
	return s.listener.Addr().String()
}

func (s *healthServer) Serve() error {
	return s.grpcServer.Serve(s.listener)
}

// Stop marks every service as not serving and stops accepting calls.
func (s *healthServer) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
