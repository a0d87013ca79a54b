package models

import (
	"github.com/samber/lo"

	"github.com/banwatch/banwatch/internal/database"
)

// UserFromDatabase converts a database user to its API shape.
func UserFromDatabase(u database.User) User {
	ips := u.IPs
	if ips == nil {
		ips = []string{}
	}
	return User{
		Username:       u.Username,
		IPs:            ips,
		UserAgent:      u.UserAgent,
		Cores:          u.Cores,
		GPU:            u.GPU,
		UsernameBanned: u.UsernameBanned,
		IPBanned:       u.IPBanned,
		LastSeen:       u.LastSeen,
	}
}

// UsersFromDatabase converts a slice of database users, never returning nil so
// empty results serialize as [].
func UsersFromDatabase(users []database.User) []User {
	return lo.Map(users, func(u database.User, _ int) User {
		return UserFromDatabase(u)
	})
}

// IPsFromDatabase converts a slice of database IPs.
func IPsFromDatabase(ips []database.IP) []IP {
	return lo.Map(ips, func(ip database.IP, _ int) IP {
		return IP{IP: ip.IP, Banned: ip.Banned}
	})
}

// StatsFromDatabase converts the aggregate report.
func StatsFromDatabase(s *database.Stats) Stats {
	return Stats{
		Users:        s.Users,
		IPs:          s.IPs,
		UsernameBans: s.UsernameBans,
		IPBans:       s.IPBans,
		FirstSeen:    s.FirstSeen,
		LastSeen:     s.LastSeen,
	}
}

// NormalizeIPs merges the legacy scalar ip field with the ips list, dropping
// empties and duplicates while keeping submission order.
func NormalizeIPs(scalar string, list []string) []string {
	ips := make([]string, 0, len(list)+1)
	if scalar != "" {
		ips = append(ips, scalar)
	}
	for _, ip := range list {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return lo.Uniq(ips)
}
