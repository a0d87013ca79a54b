// Package mock provides an in-memory implementation of database.Store for testing.
package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/banwatch/banwatch/internal/database"
)

var _ database.Store = (*MockStore)(nil)

// MockStore is a mock implementation of database.Store for testing.
type MockStore struct {
	mu sync.RWMutex

	users map[string]*database.User
	ips   map[string]*database.IP

	// Calls counts every store method invocation, so tests can assert that
	// rejected requests never reach the store.
	Calls int

	// Error simulation
	ListUsersError          error
	GetUserError            error
	CreateUserError         error
	UpdateUserError         error
	DeleteUserError         error
	ListBannedAccountsError error
	ListBannedUsersError    error
	ListBannedIPsError      error
	GetStatsError           error
}

// NewMockStore creates a new MockStore instance.
func NewMockStore() *MockStore {
	return &MockStore{
		users: make(map[string]*database.User),
		ips:   make(map[string]*database.IP),
	}
}

func (m *MockStore) ListUsers(_ context.Context) ([]database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if m.ListUsersError != nil {
		return nil, m.ListUsersError
	}
	return m.sortedUsers(func(*database.User) bool { return true }), nil
}

func (m *MockStore) GetUser(_ context.Context, username string) (*database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if m.GetUserError != nil {
		return nil, m.GetUserError
	}
	user, ok := m.users[username]
	if !ok {
		return nil, database.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (m *MockStore) CreateUser(_ context.Context, user *database.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if m.CreateUserError != nil {
		return m.CreateUserError
	}
	if _, ok := m.users[user.Username]; ok {
		return fmt.Errorf("%w: Key (username)=(%s) already exists.", database.ErrConflict, user.Username)
	}
	u := *user
	m.users[user.Username] = &u
	for _, ip := range user.IPs {
		if _, ok := m.ips[ip]; !ok {
			m.ips[ip] = &database.IP{IP: ip}
		}
	}
	return nil
}

func (m *MockStore) UpdateUser(_ context.Context, user *database.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if m.UpdateUserError != nil {
		return m.UpdateUserError
	}
	if _, ok := m.users[user.Username]; !ok {
		return database.ErrNotFound
	}
	u := *user
	m.users[user.Username] = &u
	for _, ip := range user.IPs {
		if _, ok := m.ips[ip]; !ok {
			m.ips[ip] = &database.IP{IP: ip}
		}
	}
	return nil
}

func (m *MockStore) DeleteUser(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if m.DeleteUserError != nil {
		return m.DeleteUserError
	}
	delete(m.users, username)
	return nil
}

func (m *MockStore) ListBannedAccounts(_ context.Context) ([]database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if m.ListBannedAccountsError != nil {
		return nil, m.ListBannedAccountsError
	}
	return m.sortedUsers(func(u *database.User) bool {
		return u.UsernameBanned || u.IPBanned
	}), nil
}

func (m *MockStore) ListBannedUsers(_ context.Context) ([]database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if m.ListBannedUsersError != nil {
		return nil, m.ListBannedUsersError
	}
	return m.sortedUsers(func(u *database.User) bool {
		return u.UsernameBanned
	}), nil
}

func (m *MockStore) ListBannedIPs(_ context.Context) ([]database.IP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if m.ListBannedIPsError != nil {
		return nil, m.ListBannedIPsError
	}

	var ips []database.IP
	for _, ip := range m.ips {
		if ip.Banned {
			ips = append(ips, *ip)
		}
	}
	sort.Slice(ips, func(i, j int) bool { return ips[i].IP < ips[j].IP })
	return ips, nil
}

func (m *MockStore) GetStats(_ context.Context) (*database.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if m.GetStatsError != nil {
		return nil, m.GetStatsError
	}

	stats := &database.Stats{
		Users: len(m.users),
		IPs:   len(m.ips),
	}
	for _, u := range m.users {
		if u.UsernameBanned {
			stats.UsernameBans++
		}
		if u.IPBanned {
			stats.IPBans++
		}
		if stats.FirstSeen == nil || u.LastSeen.Before(*stats.FirstSeen) {
			t := u.LastSeen
			stats.FirstSeen = &t
		}
		if stats.LastSeen == nil || u.LastSeen.After(*stats.LastSeen) {
			t := u.LastSeen
			stats.LastSeen = &t
		}
	}
	return stats, nil
}

func (m *MockStore) Ping(_ context.Context) error { return nil }

func (m *MockStore) Migrate() error { return nil }

func (m *MockStore) Close() error { return nil }

// SetIPBanned flips the ban flag of an ips row, creating it if needed.
func (m *MockStore) SetIPBanned(ip string, banned bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.ips[ip]; ok {
		existing.Banned = banned
		return
	}
	m.ips[ip] = &database.IP{IP: ip, Banned: banned}
}

func (m *MockStore) sortedUsers(keep func(*database.User) bool) []database.User {
	var users []database.User
	for _, u := range m.users {
		if keep(u) {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}
