package server

import (
	"context"
	"net"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/reqctx"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// CatalogService is the service name reported by the health server.
const CatalogService = "catalog.v1.CatalogService"

// GRPCServer serves the standard health protocol so orchestrators can probe
// the service without going through HTTP.
type GRPCServer struct {
	srv    *grpc.Server
	health *health.Server
	addr   string
	logger logger.ZapLogger
}

func NewGRPCServer(addr string, log logger.ZapLogger) *GRPCServer {
	srv := grpc.NewServer(
		grpc.UnaryInterceptor(LoggingInterceptor(log)),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &GRPCServer{
		srv:    srv,
		health: hs,
		addr:   normalizeAddr(addr),
		logger: log,
	}
}

// Start marks the service serving and blocks until Stop.
func (s *GRPCServer) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

func (s *GRPCServer) Serve(lis net.Listener) error {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(CatalogService, healthpb.HealthCheckResponse_SERVING)

	s.logger.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))
	return s.srv.Serve(lis)
}

// SetDatabaseUp flips the catalog service status with database reachability.
func (s *GRPCServer) SetDatabaseUp(up bool) {
	st := healthpb.HealthCheckResponse_SERVING
	if !up {
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus(CatalogService, st)
}

// WatchDatabase pings db every interval and mirrors reachability into the
// catalog service status. It returns when ctx is cancelled.
func (s *GRPCServer) WatchDatabase(ctx context.Context, db Pinger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	up := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := db.PingContext(pingCtx)
		cancel()
		if ctx.Err() != nil {
			return
		}

		if now := err == nil; now != up {
			up = now
			s.SetDatabaseUp(up)
			s.logger.Warn("database reachability changed", zap.Bool("up", up), zap.Error(err))
		}
	}
}

func (s *GRPCServer) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}

func LoggingInterceptor(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		log.Debug("grpc request",
			zap.String("request_id", reqctx.RequestID(ctx)),
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		)
		return resp, err
	}
}
