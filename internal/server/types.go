package server

import "github.com/afoley587/coding-challenges-2025/users-api/internal/user"

// createUserRequest is the POST /users body.
type createUserRequest struct {
	Name  string  `json:"name" binding:"required"`
	Email *string `json:"email"`
}

// userIDResponse is the GET /users/:user_id body.
type userIDResponse struct {
	ID int64 `json:"id"`
}

type listUsersResponse struct {
	Users []user.User `json:"users"`
	Count int         `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}
