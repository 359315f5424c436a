package grpc

import (
	"context"
	"net"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// ServiceName is the health service name reported for the back office.
const ServiceName = "backoffice.BackOffice"

const (
	defaultCheckInterval = 10 * time.Second
	pingTimeout          = 2 * time.Second
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes the standard gRPC health service, backed by a database ping, and
// server reflection.
type Server struct {
	server        *grpc.Server
	health        *health.Server
	pinger        Pinger
	logger        logrus.FieldLogger
	checkInterval time.Duration
}

// NewServer creates a gRPC server. A non-positive checkInterval uses the default.
func NewServer(pinger Pinger, logger logrus.FieldLogger, checkInterval time.Duration) *Server {
	if checkInterval <= 0 {
		checkInterval = defaultCheckInterval
	}

	srv := grpc.NewServer(grpc.UnaryInterceptor(loggingInterceptor(logger)))
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthSrv)

	// Register reflection service (useful for tools like grpcurl)
	reflection.Register(srv)

	s := &Server{
		server:        srv,
		health:        healthSrv,
		pinger:        pinger,
		logger:        logger,
		checkInterval: checkInterval,
	}
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// Refresh pings the database once and publishes the result.
func (s *Server) Refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		s.logger.WithError(err).Warn("database ping failed, reporting NOT_SERVING")
		s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
}

// Watch refreshes the health status until ctx is cancelled.
func (s *Server) Watch(ctx context.Context) {
	s.Refresh(ctx)
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

// Stop marks the service as shutting down and waits for in-flight calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

func (s *Server) setStatus(st healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

func loggingInterceptor(logger logrus.FieldLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.WithFields(logrus.Fields{
			"method":   info.FullMethod,
			"code":     status.Code(err).String(),
			"duration": time.Since(start).String(),
		}).Debug("gRPC call completed")
		return resp, err
	}
}
