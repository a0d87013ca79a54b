package database

import "time"

// User is a tracked client profile, keyed by username.
// The username is immutable once created; there is no rename operation.
type User struct {
	Username       string
	IPs            []string
	UserAgent      string
	Cores          int
	GPU            string
	UsernameBanned bool
	IPBanned       bool
	LastSeen       time.Time
}

// IP is a network address with its own ban state, shared between users.
type IP struct {
	IP     string
	Banned bool
}

// Stats is an aggregate snapshot over the full users and ips tables.
// FirstSeen and LastSeen are nil when no users exist.
type Stats struct {
	Users        int
	IPs          int
	UsernameBans int
	IPBans       int
	FirstSeen    *time.Time
	LastSeen     *time.Time
}
