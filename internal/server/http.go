package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"go.uber.org/zap"
)

type HTTPServer struct {
	srv    *http.Server
	logger logger.ZapLogger
}

func NewHTTPServer(addr string, handler http.Handler, log logger.ZapLogger) *HTTPServer {
	return &HTTPServer{
		srv: &http.Server{
			Addr:              normalizeAddr(addr),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: log,
	}
}

// Start blocks until the server stops. A graceful shutdown is not an error.
func (s *HTTPServer) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// normalizeAddr accepts both "5000" and ":5000".
func normalizeAddr(addr string) string {
	if addr != "" && !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}
