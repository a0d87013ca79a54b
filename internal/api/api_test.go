package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/banwatch/banwatch/internal/config"
	"github.com/banwatch/banwatch/internal/database/mock"
)

type ServerTestSuite struct {
	suite.Suite
	server *Server
	db     *mock.MockStore
}

func (s *ServerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.db = mock.NewMockStore()

	cfg := &config.Config{
		Listen:         "127.0.0.1:0",
		APIKey:         "s3cret",
		RequestTimeout: time.Second,
	}

	var err error
	s.server, err = New(cfg, s.db, false)
	require.NoError(s.T(), err)
}

func (s *ServerTestSuite) do(method, path string, headers map[string]string) *httptest.ResponseRecorder {
	var body *strings.Reader
	if method == "POST" || method == "PUT" {
		body = strings.NewReader(`{"username":"alice","ip":"1.2.3.4","last_seen":"2024-01-01T00:00:00Z"}`)
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.server.Engine().ServeHTTP(w, req)
	return w
}

func (s *ServerTestSuite) TestAllRoutesRejectMissingKey() {
	routes := []struct {
		method string
		path   string
	}{
		{"GET", "/api/users"},
		{"GET", "/api/users/alice"},
		{"POST", "/api/users"},
		{"PUT", "/api/users/alice"},
		{"DELETE", "/api/users/alice"},
		{"GET", "/api/banned"},
		{"GET", "/api/bannedusers"},
		{"GET", "/api/bannedips"},
		{"GET", "/api/stats"},
	}

	for _, r := range routes {
		w := s.do(r.method, r.path, nil)
		assert.Equal(s.T(), http.StatusUnauthorized, w.Code, "%s %s", r.method, r.path)
	}

	// Rejected requests never touch the store.
	assert.Zero(s.T(), s.db.Calls)
}

func (s *ServerTestSuite) TestAuthorizedRequestReachesStore() {
	w := s.do("GET", "/api/users", map[string]string{"X-API-Key": "s3cret"})
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), 1, s.db.Calls)
}

func (s *ServerTestSuite) TestBearerAlias() {
	w := s.do("GET", "/api/stats", map[string]string{"Authorization": "Bearer s3cret"})
	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *ServerTestSuite) TestHealthzIsUnauthenticated() {
	w := s.do("GET", "/healthz", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *ServerTestSuite) TestRequestIDEcho() {
	w := s.do("GET", "/healthz", map[string]string{"X-Request-ID": "abc-123"})
	assert.Equal(s.T(), "abc-123", w.Header().Get("X-Request-ID"))

	w = s.do("GET", "/healthz", nil)
	assert.NotEmpty(s.T(), w.Header().Get("X-Request-ID"))
}

// The worked end-to-end example: create, fetch, delete, fetch again.
func (s *ServerTestSuite) TestUserLifecycle() {
	key := map[string]string{"X-API-Key": "s3cret"}

	w := s.do("POST", "/api/users", key)
	require.Equal(s.T(), http.StatusCreated, w.Code)

	w = s.do("GET", "/api/users/alice", key)
	require.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), "alice")

	w = s.do("DELETE", "/api/users/alice", key)
	require.Equal(s.T(), http.StatusOK, w.Code)

	w = s.do("GET", "/api/users/alice", key)
	require.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), "[]", w.Body.String())
}

func (s *ServerTestSuite) TestNewRequiresConfigAndStore() {
	_, err := New(nil, s.db, false)
	assert.Error(s.T(), err)

	_, err = New(&config.Config{APIKey: "k", RequestTimeout: time.Second}, nil, false)
	assert.Error(s.T(), err)
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
