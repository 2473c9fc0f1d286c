package cmd

import (
	"crypto/tls"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/afoley587/coding-challenges-2025/users-api/internal/config"
	"github.com/afoley587/coding-challenges-2025/users-api/internal/server"
	"github.com/afoley587/coding-challenges-2025/users-api/internal/store"
)

var (
	// server network config
	httpListenAddr string
	grpcListenAddr string

	// store config
	storeBackend  string
	redisAddr     string
	redisPassword string

	// TLS/mTLS flags
	enableMTLS     bool
	serverCertFile string
	serverKeyFile  string
	serverCAFile   string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the users API server",
	Long:  "Commands related to running the HTTP and gRPC servers.",
}

var runServerCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the HTTP and gRPC servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyServerFlags(cmd.Flags(), cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := store.New(ctx, cfg.Store, logger)
		if err != nil {
			return fmt.Errorf("store setup failed: %w", err)
		}
		if c, ok := st.(io.Closer); ok {
			defer c.Close()
		}

		var tlsCfg *tls.Config
		if cfg.GRPC.MTLS {
			tlsCfg, err = server.LoadMTLSConfig(cfg.GRPC.CertFile, cfg.GRPC.KeyFile, cfg.GRPC.CAFile)
			if err != nil {
				return err
			}
			logger.Info("grpc mtls enabled")
		}

		logger.Info("starting users api",
			zap.String("http_addr", cfg.HTTP.Addr),
			zap.String("grpc_addr", cfg.GRPC.Addr))
		return server.New(st, logger, tlsCfg).ListenAndServe(ctx, cfg.HTTP.Addr, cfg.GRPC.Addr)
	},
}

// applyServerFlags overlays explicitly set flags onto c.
func applyServerFlags(flags *pflag.FlagSet, c *config.Config) {
	if flags.Changed("http-addr") {
		c.HTTP.Addr = httpListenAddr
	}
	if flags.Changed("grpc-addr") {
		c.GRPC.Addr = grpcListenAddr
	}
	if flags.Changed("store") {
		c.Store.Backend = storeBackend
	}
	if flags.Changed("redis-address") {
		c.Store.Redis.Addr = redisAddr
	}
	if flags.Changed("redis-password") {
		c.Store.Redis.Password = redisPassword
	}
	if flags.Changed("mtls") {
		c.GRPC.MTLS = enableMTLS
	}
	if flags.Changed("cert") {
		c.GRPC.CertFile = serverCertFile
	}
	if flags.Changed("key") {
		c.GRPC.KeyFile = serverKeyFile
	}
	if flags.Changed("ca") {
		c.GRPC.CAFile = serverCAFile
	}
}

// registerServerFlags binds the server run flags to fs.
func registerServerFlags(fs *pflag.FlagSet) {

	fs.StringVar(&httpListenAddr,
		"http-addr", ":8080", "HTTP address to listen on")

	fs.StringVarP(&grpcListenAddr,
		"grpc-addr", "a", "0.0.0.0:9090", "gRPC address to listen on")

	fs.StringVarP(&storeBackend,
		"store", "s", "memory", "User store backend (memory or redis)")

	fs.StringVarP(&redisAddr,
		"redis-address", "r", "127.0.0.1:6379", "Redis address")

	fs.StringVarP(&redisPassword,
		"redis-password", "p", "", "Redis password")

	fs.BoolVar(&enableMTLS,
		"mtls", false, "Enable mutual TLS on gRPC (requires --cert, --key, --ca)")

	fs.StringVar(&serverCertFile,
		"cert", "", "Path to server certificate (PEM)")

	fs.StringVar(&serverKeyFile,
		"key", "", "Path to server private key (PEM)")

	fs.StringVar(&serverCAFile,
		"ca", "", "Path to CA certificate for verifying client certificates (PEM)")
}

func init() {
	registerServerFlags(runServerCmd.Flags())
	serverCmd.AddCommand(runServerCmd)
	rootCmd.AddCommand(serverCmd)
}
