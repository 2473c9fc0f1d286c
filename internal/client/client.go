package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/afoley587/coding-challenges-2025/users-api/internal/user"
	"github.com/afoley587/coding-challenges-2025/users-api/internal/userrpc"
)

// ListUsers drains the ListUsers stream.
func (c *GRPCClient) ListUsers(ctx context.Context) ([]user.User, error) {
	stream, err := c.rpc.ListUsers(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, fmt.Errorf("list users failed: %w", err)
	}
	var users []user.User
	for {
		msg, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list users failed: %w", err)
		}
		u, err := userrpc.UserFromStruct(msg)
		if err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, u)
	}
	return users, nil
}

// CreateUser creates a user on the server and returns it with its
// assigned ID.  A nil email creates the user without one.
func (c *GRPCClient) CreateUser(ctx context.Context, name string, email *string) (*user.User, error) {
	req, err := userrpc.CreateRequest(name, email)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	msg, err := c.rpc.CreateUser(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create user failed: %w", err)
	}
	u, err := userrpc.UserFromStruct(msg)
	if err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

// GetUser returns (nil, nil) when the server reports NotFound.
func (c *GRPCClient) GetUser(ctx context.Context, id int64) (*user.User, error) {
	msg, err := c.rpc.GetUser(ctx, wrapperspb.Int64(id))
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user failed: %w", err)
	}
	u, err := userrpc.UserFromStruct(msg)
	if err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}
