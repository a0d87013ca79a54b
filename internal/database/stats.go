package database

import (
	"context"
	"database/sql"
	"fmt"
)

// GetStats computes the aggregate counters in a single statement so the
// result reflects one logical snapshot of the tables.
func (p *PostgresDB) GetStats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM ips) AS ips,
			(SELECT COUNT(*) FROM users WHERE username_banned = true) AS username_bans,
			(SELECT COUNT(*) FROM users WHERE ip_banned = true) AS ip_bans,
			(SELECT MIN(last_seen) FROM users) AS first_seen,
			(SELECT MAX(last_seen) FROM users) AS last_seen
	`

	var stats Stats
	var firstSeen, lastSeen sql.NullTime

	row := p.db.QueryRowContext(ctx, query)
	err := row.Scan(
		&stats.Users, &stats.IPs, &stats.UsernameBans, &stats.IPBans,
		&firstSeen, &lastSeen,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	if firstSeen.Valid {
		stats.FirstSeen = &firstSeen.Time
	}
	if lastSeen.Valid {
		stats.LastSeen = &lastSeen.Time
	}

	return &stats, nil
}
