package store

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/goccy/go-json"
	redis "github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"

	"github.com/afoley587/coding-challenges-2025/users-api/internal/user"
)

const (
	defaultUsersKey   = "users"
	maxCreateAttempts = 50
)

// RedisOptions configures NewRedisStore.
type RedisOptions struct {
	Addr     string
	Password string // empty string means no auth
	DB       int
	Key      string // defaults to "users"
	TLS      *tls.Config
}

// RedisStore is an implementation of UserStore backed by a single Redis
// key holding every user as one JSON document.  Creates are a
// read-modify-write of that document: writers in this process are
// serialized by mu, and writers in other processes are detected with
// WATCH and retried.  It is meant for small data sets.
type RedisStore struct {
	mu     sync.Mutex
	client *redis.Client
	key    string
}

// NewRedisStore connects to Redis and pings it to verify connectivity.
func NewRedisStore(ctx context.Context, o RedisOptions) (*RedisStore, error) {
	opts := &redis.Options{
		Addr:     o.Addr,
		Password: o.Password,
		DB:       o.DB,
		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	}
	if o.TLS != nil {
		opts.TLSConfig = o.TLS
	}
	key := o.Key
	if key == "" {
		key = defaultUsersKey
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStore{client: client, key: key}, nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// CreateUser appends the user under WATCH so a concurrent write to the
// document aborts the transaction.  Aborted attempts are retried up to
// maxCreateAttempts times.
func (s *RedisStore) CreateUser(ctx context.Context, name string, email *string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var created user.User
	txf := func(tx *redis.Tx) error {
		users, err := s.fetchAll(ctx, tx)
		if err != nil {
			return err
		}
		id := int64(len(users))
		u := user.New(id, name)
		if email != nil {
			u = user.NewWithEmail(id, name, *email)
		}
		users[id] = u
		data, err := json.Marshal(users)
		if err != nil {
			return fmt.Errorf("failed to marshal users: %w", err)
		}
		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, 0)
			return nil
		}); err != nil {
			return err
		}
		created = u
		return nil
	}

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, s.key)
		if err == nil {
			return &created, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, fmt.Errorf("redis create failed: %w", err)
	}
	return nil, fmt.Errorf("redis create failed: %s kept changing after %d attempts", s.key, maxCreateAttempts)
}

// GetUser retrieves a user by id.  It returns (nil, nil) if the user
// does not exist.
func (s *RedisStore) GetUser(ctx context.Context, id int64) (*user.User, error) {
	users, err := s.fetchAll(ctx, s.client)
	if err != nil {
		return nil, err
	}
	if u, ok := users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

// ListUsers returns all users ordered by ID.  A missing key yields an
// empty slice.
func (s *RedisStore) ListUsers(ctx context.Context) ([]user.User, error) {
	users, err := s.fetchAll(ctx, s.client)
	if err != nil {
		return nil, err
	}
	result := make([]user.User, 0, len(users))
	for _, u := range users {
		result = append(result, u)
	}
	slices.SortFunc(result, func(a, b user.User) int { return cmp.Compare(a.ID, b.ID) })
	return result, nil
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// fetchAll reads and decodes the JSON document.  A missing key is an
// empty map.
func (s *RedisStore) fetchAll(ctx context.Context, g getter) (map[int64]user.User, error) {
	raw, err := g.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return make(map[int64]user.User), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	var users map[int64]user.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal users json: %w", err)
	}
	if users == nil {
		users = make(map[int64]user.User)
	}
	return users, nil
}
