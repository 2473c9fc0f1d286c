package user

import "fmt"

// Manager owns an ordered list of users.  Add never validates or
// deduplicates.  A Manager is not safe for concurrent use; callers that
// share one must lock around it (see store.InMemoryStore).
type Manager struct {
	users []User
}

// NewManager constructs an empty manager.
func NewManager() *Manager {
	return &Manager{users: []User{}}
}

// Add appends u.
func (m *Manager) Add(u User) {
	m.users = append(m.users, u)
}

// Count returns the number of users added so far.
func (m *Manager) Count() int {
	return len(m.users)
}

// Get returns the user at index.  The boolean is false when index is out
// of range.
func (m *Manager) Get(index int) (User, bool) {
	if index < 0 || index >= len(m.users) {
		return User{}, false
	}
	return m.users[index], true
}

// Users returns a copy of the users in insertion order.
func (m *Manager) Users() []User {
	out := make([]User, len(m.users))
	copy(out, m.users)
	return out
}

func (m *Manager) String() string {
	return fmt.Sprintf("UserManager with %d users", len(m.users))
}
