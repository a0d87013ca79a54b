package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/banwatch/banwatch/internal/database"
)

func TestNormalizeIPs(t *testing.T) {
	tests := []struct {
		name   string
		scalar string
		list   []string
		want   []string
	}{
		{"scalar only", "1.2.3.4", nil, []string{"1.2.3.4"}},
		{"list only", "", []string{"1.2.3.4", "5.6.7.8"}, []string{"1.2.3.4", "5.6.7.8"}},
		{"scalar duplicated in list", "1.2.3.4", []string{"1.2.3.4", "5.6.7.8"}, []string{"1.2.3.4", "5.6.7.8"}},
		{"empty entries dropped", "", []string{"", "1.2.3.4", ""}, []string{"1.2.3.4"}},
		{"nothing", "", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeIPs(tt.scalar, tt.list))
		})
	}
}

func TestUserFromDatabase_NilIPs(t *testing.T) {
	u := UserFromDatabase(database.User{Username: "alice", LastSeen: time.Now()})
	assert.NotNil(t, u.IPs)
	assert.Empty(t, u.IPs)
}

func TestUsersFromDatabase_EmptyIsNotNil(t *testing.T) {
	users := UsersFromDatabase(nil)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}
