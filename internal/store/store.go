package store

import (
	"context"
	"crypto/tls"
	"fmt"

	"go.uber.org/zap"

	"github.com/afoley587/coding-challenges-2025/users-api/internal/config"
	"github.com/afoley587/coding-challenges-2025/users-api/internal/user"
)

// UserStore defines an interface for persisting and retrieving users.
//
// Implementations may use different backends (in-memory for tests and
// development, Redis for shared deployments).  The HTTP and gRPC
// surfaces depend on this abstraction rather than a concrete store.
//
// All methods accept a context for cancellation and deadlines.  When a
// user is not found, GetUser returns a nil *user.User and a nil error.
type UserStore interface {
	// CreateUser stores a new user with the provided name and optional
	// email.  IDs are assigned sequentially starting from 0.
	CreateUser(ctx context.Context, name string, email *string) (*user.User, error)
	// GetUser returns the user identified by id or nil if the user
	// does not exist.
	GetUser(ctx context.Context, id int64) (*user.User, error)
	// ListUsers returns all users ordered by ascending ID.
	ListUsers(ctx context.Context) ([]user.User, error)
}

// New builds the backend selected by cfg.
func New(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (UserStore, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		logger.Info("using in-memory user store")
		return NewInMemoryStore(), nil
	case config.BackendRedis:
		logger.Info("using redis user store",
			zap.String("addr", cfg.Redis.Addr),
			zap.Int("db", cfg.Redis.DB))
		opts := RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      cfg.Redis.Key,
		}
		if cfg.Redis.TLS {
			opts.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		return NewRedisStore(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
