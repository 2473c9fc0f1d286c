package server_test

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	srv "github.com/afoley587/coding-challenges-2025/users-api/internal/server"
	"github.com/afoley587/coding-challenges-2025/users-api/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetUserEchoesID(t *testing.T) {
	router := srv.NewRouter(store.NewInMemoryStore(), zap.NewNop())

	for _, id := range []int64{0, 1, 42, -7, math.MaxInt64, math.MinInt64} {
		rec := doRequest(t, router, http.MethodGet, "/users/"+strconv.FormatInt(id, 10), "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]int64
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, map[string]int64{"id": id}, body)
	}
}

func TestGetUserDoesNotTouchStore(t *testing.T) {
	s := store.NewInMemoryStore()
	router := srv.NewRouter(s, zap.NewNop())

	rec := doRequest(t, router, http.MethodGet, "/users/5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestGetUserRejectsNonInteger(t *testing.T) {
	router := srv.NewRouter(store.NewInMemoryStore(), zap.NewNop())

	for _, raw := range []string{"abc", "1.5", "99999999999999999999"} {
		rec := doRequest(t, router, http.MethodGet, "/users/"+raw, "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, raw)
	}
}

func TestCreateAndListUsers(t *testing.T) {
	router := srv.NewRouter(store.NewInMemoryStore(), zap.NewNop())

	rec := doRequest(t, router, http.MethodPost, "/users", `{"name":"Alice","email":"alice@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":0,"name":"Alice","email":"alice@example.com"}`, rec.Body.String())

	rec = doRequest(t, router, http.MethodPost, "/users", `{"name":"Bob"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Bob","email":null}`, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"users": [
			{"id":0,"name":"Alice","email":"alice@example.com"},
			{"id":1,"name":"Bob","email":null}
		],
		"count": 2
	}`, rec.Body.String())
}

func TestCreateUserRequiresName(t *testing.T) {
	router := srv.NewRouter(store.NewInMemoryStore(), zap.NewNop())

	for _, body := range []string{`{}`, `{"name":""}`, `not json`} {
		rec := doRequest(t, router, http.MethodPost, "/users", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestRequestIDHeader(t *testing.T) {
	router := srv.NewRouter(store.NewInMemoryStore(), zap.NewNop())

	rec := doRequest(t, router, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
