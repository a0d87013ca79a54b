package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

const userColumns = `username, useragent, cores, gpu, username_banned, ip_banned, last_seen`

// ListUsers returns all users with their IP sets, ordered by username.
func (p *PostgresDB) ListUsers(ctx context.Context) ([]User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY username ASC`, userColumns)
	return p.queryUsers(ctx, query)
}

// GetUser returns the user with the given username or ErrNotFound.
func (p *PostgresDB) GetUser(ctx context.Context, username string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)

	var user User
	row := p.db.QueryRowContext(ctx, query, username)
	err := row.Scan(
		&user.Username, &user.UserAgent, &user.Cores, &user.GPU,
		&user.UsernameBanned, &user.IPBanned, &user.LastSeen,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ips, err := p.userIPs(ctx, username)
	if err != nil {
		return nil, err
	}
	user.IPs = ips

	return &user, nil
}

// CreateUser inserts the user row together with its IP and join rows.
// The writes share one transaction so a partial insert is never reported
// as success. A duplicate username returns ErrConflict.
func (p *PostgresDB) CreateUser(ctx context.Context, user *User) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Error("failed to rollback transaction", "error", err)
		}
	}()

	query := `
		INSERT INTO users (username, useragent, cores, gpu, username_banned, ip_banned, last_seen)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.ExecContext(ctx, query,
		user.Username, user.UserAgent, user.Cores, user.GPU,
		user.UsernameBanned, user.IPBanned, user.LastSeen,
	)
	if err != nil {
		if conflict := mapConflict(err); errors.Is(conflict, ErrConflict) {
			return conflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := insertUserIPs(ctx, tx, user.Username, user.IPs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateUser overwrites all mutable fields of the user and replaces its IP
// set. Returns ErrNotFound when no row matches the username.
func (p *PostgresDB) UpdateUser(ctx context.Context, user *User) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Error("failed to rollback transaction", "error", err)
		}
	}()

	query := `
		UPDATE users
		SET useragent = $1, cores = $2, gpu = $3, username_banned = $4, ip_banned = $5, last_seen = $6
		WHERE username = $7
	`

	result, err := tx.ExecContext(ctx, query,
		user.UserAgent, user.Cores, user.GPU,
		user.UsernameBanned, user.IPBanned, user.LastSeen, user.Username,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_ips WHERE username = $1`, user.Username); err != nil {
		return fmt.Errorf("failed to clear user ips: %w", err)
	}

	if err := insertUserIPs(ctx, tx, user.Username, user.IPs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteUser removes the user row, if any. Deleting a missing user is not an
// error; the join rows go away through the foreign key cascade.
func (p *PostgresDB) DeleteUser(ctx context.Context, username string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM users WHERE username = $1`, username); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ListBannedAccounts returns users banned by username, by IP, or both.
func (p *PostgresDB) ListBannedAccounts(ctx context.Context) ([]User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE username_banned = true OR ip_banned = true
		ORDER BY username ASC
	`, userColumns)
	return p.queryUsers(ctx, query)
}

// ListBannedUsers returns users banned by username.
func (p *PostgresDB) ListBannedUsers(ctx context.Context) ([]User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE username_banned = true
		ORDER BY username ASC
	`, userColumns)
	return p.queryUsers(ctx, query)
}

// ListBannedIPs returns the IP rows flagged as banned.
func (p *PostgresDB) ListBannedIPs(ctx context.Context) ([]IP, error) {
	query := `SELECT ip, banned FROM ips WHERE banned = true ORDER BY ip ASC`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list banned ips: %w", err)
	}
	defer rows.Close() //nolint: errcheck

	var ips []IP
	for rows.Next() {
		var ip IP
		if err := rows.Scan(&ip.IP, &ip.Banned); err != nil {
			return nil, fmt.Errorf("failed to scan ip: %w", err)
		}
		ips = append(ips, ip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading banned ips: %w", err)
	}

	return ips, nil
}

// queryUsers runs a users query and attaches each user's IP set.
func (p *PostgresDB) queryUsers(ctx context.Context, query string, args ...any) ([]User, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close() //nolint: errcheck

	var users []User
	for rows.Next() {
		var user User
		err := rows.Scan(
			&user.Username, &user.UserAgent, &user.Cores, &user.GPU,
			&user.UsernameBanned, &user.IPBanned, &user.LastSeen,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading users: %w", err)
	}

	if len(users) == 0 {
		return users, nil
	}

	ipsByUser, err := p.allUserIPs(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].IPs = ipsByUser[users[i].Username]
	}

	return users, nil
}

// userIPs returns the IP set of a single user, ordered by address.
func (p *PostgresDB) userIPs(ctx context.Context, username string) ([]string, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT ip FROM user_ips WHERE username = $1 ORDER BY ip ASC`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query user ips: %w", err)
	}
	defer rows.Close() //nolint: errcheck

	var ips []string
	for rows.Next() {
		var ip string
		if err := rows.Scan(&ip); err != nil {
			return nil, fmt.Errorf("failed to scan user ip: %w", err)
		}
		ips = append(ips, ip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading user ips: %w", err)
	}

	return ips, nil
}

// allUserIPs returns the full join table grouped by username.
func (p *PostgresDB) allUserIPs(ctx context.Context) (map[string][]string, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT username, ip FROM user_ips ORDER BY username ASC, ip ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query user ips: %w", err)
	}
	defer rows.Close() //nolint: errcheck

	ipsByUser := make(map[string][]string)
	for rows.Next() {
		var username, ip string
		if err := rows.Scan(&username, &ip); err != nil {
			return nil, fmt.Errorf("failed to scan user ip: %w", err)
		}
		ipsByUser[username] = append(ipsByUser[username], ip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading user ips: %w", err)
	}

	return ipsByUser, nil
}

// insertUserIPs upserts each address into ips and links it to the user.
// Existing ips rows keep their ban state.
func insertUserIPs(ctx context.Context, tx *sql.Tx, username string, ips []string) error {
	for _, ip := range ips {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ips (ip) VALUES ($1) ON CONFLICT (ip) DO NOTHING`, ip); err != nil {
			return fmt.Errorf("failed to upsert ip %s: %w", ip, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_ips (username, ip) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			username, ip); err != nil {
			return fmt.Errorf("failed to link ip %s: %w", ip, err)
		}
	}
	return nil
}
