package server

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/afoley587/coding-challenges-2025/users-api/internal/store"
	"github.com/afoley587/coding-challenges-2025/users-api/internal/userrpc"
)

// grpcServer implements users.v1.UserService by delegating operations
// to a UserStore.  It contains no storage logic of its own.  Use
// NewGRPCServer to construct an instance.
type grpcServer struct {
	store  store.UserStore
	logger *zap.Logger
}

// NewGRPCServer constructs a gRPC service implementation backed by the
// provided store.
func NewGRPCServer(s store.UserStore, logger *zap.Logger) userrpc.UserServiceServer {
	return &grpcServer{store: s, logger: logger}
}

// GetUser returns a single user identified by id.  If the user is not
// found, a NotFound status code is returned.
func (s *grpcServer) GetUser(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	u, err := s.store.GetUser(ctx, req.GetValue())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "get user failed: %v", err)
	}
	if u == nil {
		return nil, status.Error(codes.NotFound, "user not found")
	}
	out, err := userrpc.UserToStruct(*u)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode user failed: %v", err)
	}
	return out, nil
}

// ListUsers streams all users to the client in ID order.  If no users
// exist, the stream is closed without sending any messages.
func (s *grpcServer) ListUsers(_ *emptypb.Empty, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	users, err := s.store.ListUsers(stream.Context())
	if err != nil {
		return status.Errorf(codes.Internal, "list users failed: %v", err)
	}
	for _, u := range users {
		msg, err := userrpc.UserToStruct(u)
		if err != nil {
			return status.Errorf(codes.Internal, "encode user failed: %v", err)
		}
		if err := stream.Send(msg); err != nil {
			return err
		}
	}
	s.logger.Debug("streamed users", zap.Int("count", len(users)))
	return nil
}

// CreateUser creates a new user.  Name is required, email is optional;
// a malformed request returns InvalidArgument.
func (s *grpcServer) CreateUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name, email, err := userrpc.ParseCreateRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	u, err := s.store.CreateUser(ctx, name, email)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "create user failed: %v", err)
	}
	s.logger.Info("created user", zap.Int64("id", u.ID), zap.String("name", u.Name))
	out, err := userrpc.UserToStruct(*u)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode user failed: %v", err)
	}
	return out, nil
}
