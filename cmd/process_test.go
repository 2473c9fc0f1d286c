package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeUsersFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		usersFile = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLoadUsers(t *testing.T) {
	path := writeUsersFile(t, `
- id: 1
  name: Alice
  email: alice@example.com
- id: 2
  name: Bob
`)
	m, err := loadUsers(path)
	require.NoError(t, err)
	require.Equal(t, 2, m.Count())

	bob, ok := m.Get(1)
	require.True(t, ok)
	assert.Nil(t, bob.Email)

	alice, _ := m.Get(0)
	assert.Equal(t, "alice@example.com", alice.EmailOrEmpty())
}

func TestLoadUsersAcceptsJSON(t *testing.T) {
	path := writeUsersFile(t, `[{"id": 0, "name": "Zed", "email": null}]`)
	m, err := loadUsers(path)
	require.NoError(t, err)
	u, ok := m.Get(0)
	require.True(t, ok)
	assert.Equal(t, int64(0), u.ID)
	assert.False(t, u.HasEmail())
}

func TestLoadUsersRejectsMissingFields(t *testing.T) {
	_, err := loadUsers(writeUsersFile(t, "- name: NoID\n"))
	assert.ErrorContains(t, err, "id is required")

	_, err = loadUsers(writeUsersFile(t, "- id: 3\n"))
	assert.Error(t, err)
}

func TestProcessCommandPrintsNotices(t *testing.T) {
	path := writeUsersFile(t, `
- {id: 1, name: Alice}
- {id: 2, name: Bob}
- {id: 3, name: Carol}
`)
	out, err := runRoot(t, "process", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "Processing Alice\nProcessing Bob\nProcessing Carol\n", out)
}

func TestProcessCommandRequiresFile(t *testing.T) {
	_, err := runRoot(t, "process")
	assert.Error(t, err)
}
