package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/banwatch/banwatch/internal/api/models"
	"github.com/banwatch/banwatch/internal/database"
	"github.com/banwatch/banwatch/internal/database/mock"
)

type ReportsTestSuite struct {
	suite.Suite
	router *gin.Engine
	db     *mock.MockStore
}

func (s *ReportsTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.db = mock.NewMockStore()
	h := New(s.db)

	s.router = gin.New()
	s.router.GET("/api/banned", h.BannedAccounts)
	s.router.GET("/api/bannedusers", h.BannedUsers)
	s.router.GET("/api/bannedips", h.BannedIPs)
	s.router.GET("/api/stats", h.Stats)
}

func (s *ReportsTestSuite) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, &bytes.Buffer{})
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ReportsTestSuite) seed() {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	users := []database.User{
		{Username: "alice", IPs: []string{"1.1.1.1"}, LastSeen: now},
		{Username: "bob", IPs: []string{"2.2.2.2"}, UsernameBanned: true, LastSeen: now.Add(time.Hour)},
		{Username: "carol", IPs: []string{"3.3.3.3"}, IPBanned: true, LastSeen: now.Add(-time.Hour)},
		{Username: "dave", IPs: []string{"4.4.4.4"}, UsernameBanned: true, IPBanned: true, LastSeen: now},
	}
	for i := range users {
		require.NoError(s.T(), s.db.CreateUser(s.T().Context(), &users[i]))
	}
	s.db.SetIPBanned("3.3.3.3", true)
	s.db.SetIPBanned("4.4.4.4", true)
}

func (s *ReportsTestSuite) decodeUsers(w *httptest.ResponseRecorder) []models.User {
	var users []models.User
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &users))
	return users
}

func (s *ReportsTestSuite) TestBannedAccounts() {
	s.seed()

	w := s.get("/api/banned")
	require.Equal(s.T(), http.StatusOK, w.Code)

	users := s.decodeUsers(w)
	names := lo.Map(users, func(u models.User, _ int) string { return u.Username })
	assert.Equal(s.T(), []string{"bob", "carol", "dave"}, names)
}

func (s *ReportsTestSuite) TestBannedUsers() {
	s.seed()

	w := s.get("/api/bannedusers")
	require.Equal(s.T(), http.StatusOK, w.Code)

	users := s.decodeUsers(w)
	names := lo.Map(users, func(u models.User, _ int) string { return u.Username })
	assert.Equal(s.T(), []string{"bob", "dave"}, names)
}

func (s *ReportsTestSuite) TestBannedIPs() {
	s.seed()

	w := s.get("/api/bannedips")
	require.Equal(s.T(), http.StatusOK, w.Code)

	var ips []models.IP
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &ips))
	addrs := lo.Map(ips, func(ip models.IP, _ int) string { return ip.IP })
	assert.Equal(s.T(), []string{"3.3.3.3", "4.4.4.4"}, addrs)
}

// Banned accounts must equal the union of username-banned and ip-banned users,
// without duplicates for users banned both ways.
func (s *ReportsTestSuite) TestBannedAccountsIsUnion() {
	s.seed()

	accounts := s.decodeUsers(s.get("/api/banned"))
	byUsername := s.decodeUsers(s.get("/api/bannedusers"))

	union := lo.Map(byUsername, func(u models.User, _ int) string { return u.Username })
	for _, u := range accounts {
		if u.IPBanned {
			union = append(union, u.Username)
		}
	}
	union = lo.Uniq(union)

	names := lo.Map(accounts, func(u models.User, _ int) string { return u.Username })
	assert.ElementsMatch(s.T(), union, names)
}

func (s *ReportsTestSuite) TestEmptyReports() {
	for _, path := range []string{"/api/banned", "/api/bannedusers", "/api/bannedips"} {
		w := s.get(path)
		require.Equal(s.T(), http.StatusOK, w.Code)
		assert.Equal(s.T(), "[]", w.Body.String(), path)
	}
}

func (s *ReportsTestSuite) TestStats() {
	s.seed()

	w := s.get("/api/stats")
	require.Equal(s.T(), http.StatusOK, w.Code)

	var stats models.Stats
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &stats))

	assert.Equal(s.T(), 4, stats.Users)
	assert.Equal(s.T(), 4, stats.IPs)
	assert.Equal(s.T(), 2, stats.UsernameBans)
	assert.Equal(s.T(), 2, stats.IPBans)
	require.NotNil(s.T(), stats.FirstSeen)
	require.NotNil(s.T(), stats.LastSeen)
	assert.True(s.T(), stats.FirstSeen.Before(*stats.LastSeen))
}

func (s *ReportsTestSuite) TestStatsMatchesListCounts() {
	s.seed()

	var stats models.Stats
	require.NoError(s.T(), json.Unmarshal(s.get("/api/stats").Body.Bytes(), &stats))

	all, err := s.db.ListUsers(s.T().Context())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), len(all), stats.Users)

	banned := lo.CountBy(all, func(u database.User) bool { return u.UsernameBanned })
	assert.Equal(s.T(), banned, stats.UsernameBans)
}

func (s *ReportsTestSuite) TestStatsEmpty() {
	w := s.get("/api/stats")
	require.Equal(s.T(), http.StatusOK, w.Code)

	var stats models.Stats
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Zero(s.T(), stats.Users)
	assert.Nil(s.T(), stats.FirstSeen)
	assert.Nil(s.T(), stats.LastSeen)
}

func (s *ReportsTestSuite) TestStoreErrors() {
	s.db.ListBannedAccountsError = errors.New("connection lost")
	s.db.GetStatsError = errors.New("connection lost")

	assert.Equal(s.T(), http.StatusInternalServerError, s.get("/api/banned").Code)
	assert.Equal(s.T(), http.StatusInternalServerError, s.get("/api/stats").Code)
}

func TestReportsTestSuite(t *testing.T) {
	suite.Run(t, new(ReportsTestSuite))
}
