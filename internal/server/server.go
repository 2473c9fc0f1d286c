package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/status"

	"github.com/afoley587/coding-challenges-2025/users-api/internal/store"
	"github.com/afoley587/coding-challenges-2025/users-api/internal/userrpc"
)

const shutdownTimeout = 5 * time.Second

// Server bundles the HTTP and gRPC surfaces over one UserStore.
type Server struct {
	http   *http.Server
	grpc   *grpc.Server
	logger *zap.Logger

	shutdownTimeout time.Duration
}

// New builds both surfaces.  When tlsCfg is nil the gRPC listener is
// insecure.
func New(s store.UserStore, logger *zap.Logger, tlsCfg *tls.Config) *Server {
	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(unaryLogger(logger)),
		grpc.ChainStreamInterceptor(streamLogger(logger)),
	}
	if tlsCfg != nil {
		opts = append(opts, grpc.Creds(credentials.NewTLS(tlsCfg)))
	}
	grpcServer := grpc.NewServer(opts...)
	userrpc.RegisterUserServiceServer(grpcServer, NewGRPCServer(s, logger))

	return &Server{
		http: &http.Server{
			Handler:           NewRouter(s, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		grpc:   grpcServer,
		logger: logger,

		shutdownTimeout: shutdownTimeout,
	}
}

// ListenAndServe listens on both addresses and blocks until ctx is
// cancelled or either server fails.
func (srv *Server) ListenAndServe(ctx context.Context, httpAddr, grpcAddr string) error {
	httpLis, err := net.Listen("tcp", httpAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", httpAddr, err)
	}
	grpcLis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		_ = httpLis.Close()
		return fmt.Errorf("failed to listen on %s: %w", grpcAddr, err)
	}
	return srv.Serve(ctx, httpLis, grpcLis)
}

// Serve runs both servers on the given listeners.  Cancelling ctx stops
// them gracefully; connections still open after the shutdown timeout
// are closed.  Serve returns once both have exited.
func (srv *Server) Serve(ctx context.Context, httpLis, grpcLis net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		srv.logger.Info("http server listening", zap.String("addr", httpLis.Addr().String()))
		if err := srv.http.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		srv.logger.Info("grpc server listening", zap.String("addr", grpcLis.Addr().String()))
		if err := srv.grpc.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		srv.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), srv.shutdownTimeout)
		defer cancel()

		grpcStopped := make(chan struct{})
		go func() {
			srv.grpc.GracefulStop()
			close(grpcStopped)
		}()
		httpErr := srv.http.Shutdown(shutdownCtx)

		select {
		case <-grpcStopped:
		case <-shutdownCtx.Done():
			srv.logger.Warn("grpc graceful stop timed out, closing open streams")
			srv.grpc.Stop()
			<-grpcStopped
		}
		return httpErr
	})

	return g.Wait()
}

// LoadMTLSConfig builds a server TLS config that requires and verifies
// client certificates signed by caFile.
func LoadMTLSConfig(certFile, keyFile, caFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load server key pair: %w", err)
	}
	caPEM, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read ca: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("no certificates found in %s", caFile)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientAuth:   tls.RequireAndVerifyClientCert,
		ClientCAs:    pool,
		MinVersion:   tls.VersionTLS12,
	}, nil
}

func unaryLogger(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("grpc call",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)))
		return resp, err
	}
}

func streamLogger(logger *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		logger.Info("grpc stream",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)))
		return err
	}
}
