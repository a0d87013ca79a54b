// Package models holds the wire types of the HTTP API.
package models

import "time"

// User is the API representation of a tracked user.
type User struct {
	Username       string    `json:"username"`
	IPs            []string  `json:"ips"`
	UserAgent      string    `json:"useragent"`
	Cores          int       `json:"cores"`
	GPU            string    `json:"gpu"`
	UsernameBanned bool      `json:"username_banned"`
	IPBanned       bool      `json:"ip_banned"`
	LastSeen       time.Time `json:"last_seen"`
}

// IP is the API representation of a tracked network address.
type IP struct {
	IP     string `json:"ip"`
	Banned bool   `json:"banned"`
}

// Stats is the aggregate report returned by the stats endpoint.
type Stats struct {
	Users        int        `json:"users"`
	IPs          int        `json:"ips"`
	UsernameBans int        `json:"username_bans"`
	IPBans       int        `json:"ip_bans"`
	FirstSeen    *time.Time `json:"first_seen"`
	LastSeen     *time.Time `json:"last_seen"`
}

// CreateUserRequest is the POST body for creating a user. IP is the legacy
// scalar form; IPs is the preferred list form. Either satisfies the address
// requirement, both may be present.
type CreateUserRequest struct {
	Username       string    `json:"username" binding:"required"`
	IP             string    `json:"ip"`
	IPs            []string  `json:"ips"`
	UserAgent      string    `json:"useragent"`
	Cores          int       `json:"cores"`
	GPU            string    `json:"gpu"`
	UsernameBanned bool      `json:"username_banned"`
	IPBanned       bool      `json:"ip_banned"`
	LastSeen       time.Time `json:"last_seen"`
}

// UpdateUserRequest is the PUT body. The username comes from the path and all
// mutable fields are overwritten as a whole, not patched.
type UpdateUserRequest struct {
	IP             string    `json:"ip"`
	IPs            []string  `json:"ips"`
	UserAgent      string    `json:"useragent"`
	Cores          int       `json:"cores"`
	GPU            string    `json:"gpu"`
	UsernameBanned bool      `json:"username_banned"`
	IPBanned       bool      `json:"ip_banned"`
	LastSeen       time.Time `json:"last_seen"`
}
