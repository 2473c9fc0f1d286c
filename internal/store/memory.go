package store

import (
	"context"
	"sync"

	"github.com/afoley587/coding-challenges-2025/users-api/internal/user"
)

// InMemoryStore is an implementation of UserStore backed by a
// user.Manager.  It is safe for concurrent use.  Data is not persisted
// beyond the lifetime of the process.
type InMemoryStore struct {
	mu    sync.Mutex
	users *user.Manager
}

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users: user.NewManager(),
	}
}

// CreateUser appends a new user.  The ID is the manager's count at
// insertion time, so IDs double as indexes.
func (s *InMemoryStore) CreateUser(ctx context.Context, name string, email *string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := int64(s.users.Count())
	u := user.New(id, name)
	if email != nil {
		u = user.NewWithEmail(id, name, *email)
	}
	s.users.Add(u)
	return &u, nil
}

// GetUser retrieves a user by id.  It returns (nil, nil) if the user
// does not exist.
func (s *InMemoryStore) GetUser(ctx context.Context, id int64) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := int(id)
	if int64(idx) != id {
		return nil, nil
	}
	u, ok := s.users.Get(idx)
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// ListUsers returns all users in insertion order, which is also ID order.
func (s *InMemoryStore) ListUsers(ctx context.Context) ([]user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.Users(), nil
}
