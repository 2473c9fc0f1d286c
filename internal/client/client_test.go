package client_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/afoley587/coding-challenges-2025/users-api/internal/client"
	"github.com/afoley587/coding-challenges-2025/users-api/internal/server"
	"github.com/afoley587/coding-challenges-2025/users-api/internal/store"
	"github.com/afoley587/coding-challenges-2025/users-api/internal/userrpc"
)

func newTestClient(t *testing.T) *client.GRPCClient {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	grpcServer := grpc.NewServer()
	userrpc.RegisterUserServiceServer(grpcServer, server.NewGRPCServer(store.NewInMemoryStore(), zap.NewNop()))
	go func() { _ = grpcServer.Serve(lis) }()
	t.Cleanup(grpcServer.Stop)

	c, err := client.NewClient(client.DialConfig{Address: lis.Addr().String(), Insecure: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClientRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	users, err := c.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	email := "alice@example.com"
	alice, err := c.CreateUser(ctx, "Alice", &email)
	require.NoError(t, err)
	assert.Equal(t, int64(0), alice.ID)
	assert.Equal(t, email, alice.EmailOrEmpty())

	bob, err := c.CreateUser(ctx, "Bob", nil)
	require.NoError(t, err)
	assert.Nil(t, bob.Email)

	got, err := c.GetUser(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Bob", got.Name)

	missing, err := c.GetUser(ctx, 9)
	require.NoError(t, err)
	assert.Nil(t, missing)

	users, err = c.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "Bob", users[1].Name)
}

func TestClientCreateUserRejectsEmptyName(t *testing.T) {
	c := newTestClient(t)
	_, err := c.CreateUser(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestNewClientTLSConfigErrors(t *testing.T) {
	_, err := client.NewClient(client.DialConfig{Address: "127.0.0.1:1", RootCA: "/does/not/exist.pem"})
	assert.Error(t, err)

	_, err = client.NewClient(client.DialConfig{Address: "127.0.0.1:1", ClientCert: "cert.pem"})
	assert.Error(t, err)
}
