package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/afoley587/coding-challenges-2025/users-api/internal/store"
)

const requestIDHeader = "X-Request-ID"

// NewRouter builds the gin engine serving the users HTTP API.
func NewRouter(s store.UserStore, logger *zap.Logger) *gin.Engine {
	h := &httpHandler{store: s, logger: logger}

	r := gin.New()
	r.Use(requestLogger(logger), gin.Recovery())

	r.GET("/healthz", h.health)
	r.GET("/users", h.listUsers)
	r.POST("/users", h.createUser)
	r.GET("/users/:user_id", h.getUser)
	return r
}

type httpHandler struct {
	store  store.UserStore
	logger *zap.Logger
}

// getUser echoes the path identifier.  It performs no lookup.  An
// identifier that is not a base-10 integer, or does not fit in an int64,
// is rejected with 422.
func (h *httpHandler) getUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "user_id must be an integer"})
		return
	}
	c.JSON(http.StatusOK, userIDResponse{ID: id})
}

func (h *httpHandler) listUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "list users failed"})
		return
	}
	c.JSON(http.StatusOK, listUsersResponse{Users: users, Count: len(users)})
}

func (h *httpHandler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	u, err := h.store.CreateUser(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		h.logger.Error("create user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "create user failed"})
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *httpHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestLogger tags every request with an X-Request-ID, reusing the
// caller's when present, and logs it once the handler returns.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)

		c.Next()

		logger.Info("http request",
			zap.String("request_id", reqID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
