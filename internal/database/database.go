package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

var _ Store = (*PostgresDB)(nil) // Ensure PostgresDB implements Store

// Store defines the persistence operations used by the API handlers.
type Store interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, username string) error

	ListBannedAccounts(ctx context.Context) ([]User, error)
	ListBannedUsers(ctx context.Context) ([]User, error)
	ListBannedIPs(ctx context.Context) ([]IP, error)

	GetStats(ctx context.Context) (*Stats, error)

	Ping(ctx context.Context) error
	Migrate() error
	Close() error
}

// PostgresDB implements the Store interface using PostgreSQL.
type PostgresDB struct {
	db *sql.DB
}

// New opens a connection pool for the given Postgres DSN.
func New(dsn string) (*PostgresDB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// Test the connection
	if err := db.PingContext(context.Background()); err != nil {
		db.Close() //nolint: errcheck, gosec
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresDB{db: db}, nil
}

// Migrate runs database migrations.
func (p *PostgresDB) Migrate() error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(p.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations completed successfully")
	return nil
}

// Ping checks the database connection.
func (p *PostgresDB) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the database connection pool.
func (p *PostgresDB) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}
