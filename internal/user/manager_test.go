package user_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afoley587/coding-challenges-2025/users-api/internal/user"
)

func TestManagerCountTracksAdds(t *testing.T) {
	m := user.NewManager()
	assert.Equal(t, 0, m.Count())
	for k := 1; k <= 10; k++ {
		m.Add(user.New(int64(k), "u"))
		assert.Equal(t, k, m.Count())
	}
}

func TestManagerKeepsDuplicates(t *testing.T) {
	m := user.NewManager()
	u := user.New(1, "same")
	m.Add(u)
	m.Add(u)
	assert.Equal(t, 2, m.Count())
}

func TestManagerGet(t *testing.T) {
	m := user.NewManager()
	m.Add(user.New(10, "Alice"))
	m.Add(user.NewWithEmail(11, "Bob", "bob@example.com"))

	got, ok := m.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Bob", got.Name)

	_, ok = m.Get(2)
	assert.False(t, ok)
	_, ok = m.Get(-1)
	assert.False(t, ok)
}

func TestManagerUsersReturnsCopy(t *testing.T) {
	m := user.NewManager()
	m.Add(user.New(1, "Alice"))

	users := m.Users()
	users[0] = user.New(99, "changed")

	got, _ := m.Get(0)
	assert.Equal(t, "Alice", got.Name)
}

func TestManagerString(t *testing.T) {
	m := user.NewManager()
	m.Add(user.New(1, "a"))
	m.Add(user.New(2, "b"))
	assert.Equal(t, "UserManager with 2 users", m.String())
}
