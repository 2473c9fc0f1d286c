package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/afoley587/coding-challenges-2025/users-api/internal/store"
	"github.com/afoley587/coding-challenges-2025/users-api/internal/user"
	"github.com/afoley587/coding-challenges-2025/users-api/internal/userrpc"
)

// stalledStore holds ListUsers open until its context is cancelled,
// which only a hard gRPC stop does.
type stalledStore struct {
	store.UserStore
	entered chan struct{}
}

func (s *stalledStore) ListUsers(ctx context.Context) ([]user.User, error) {
	close(s.entered)
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestServeForcesGRPCStopAfterTimeout(t *testing.T) {
	httpLis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	grpcLis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	st := &stalledStore{UserStore: store.NewInMemoryStore(), entered: make(chan struct{})}
	srv := New(st, zaptest.NewLogger(t), nil)
	srv.shutdownTimeout = 100 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, httpLis, grpcLis) }()

	conn, err := grpc.NewClient(grpcLis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	streamCtx, streamCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer streamCancel()
	stream, err := userrpc.NewUserServiceClient(conn).ListUsers(streamCtx, &emptypb.Empty{})
	require.NoError(t, err)
	recvErr := make(chan error, 1)
	go func() {
		_, err := stream.Recv()
		recvErr <- err
	}()

	select {
	case <-st.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("ListUsers never reached the store")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after the shutdown timeout")
	}
	assert.Error(t, <-recvErr)
}
