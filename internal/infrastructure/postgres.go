package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresClient struct {
	Pool *pgxpool.Pool
}

func NewPostgresClient(connString string) (*PostgresClient, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	// Pool configuration
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	client := &PostgresClient{Pool: pool}

	// Auto-migrate schema
	if err := client.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return client, nil
}

func (p *PostgresClient) Migrate() error {
	ctx := context.Background()

	// Profiles Table (auth identity + plan + usage counter)
	_, err := p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			display_name VARCHAR(255) NOT NULL DEFAULT '',
			password_hash VARCHAR(255) NOT NULL,
			plan VARCHAR(20) NOT NULL DEFAULT 'free',
			qr_count INT NOT NULL DEFAULT 0 CHECK (qr_count >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("create profiles table: %w", err)
	}

	// QR Codes Table
	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS qr_codes (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			type VARCHAR(20) NOT NULL,
			content TEXT NOT NULL,
			label VARCHAR(256) NOT NULL DEFAULT '',
			data_url TEXT NOT NULL DEFAULT '',
			is_dynamic BOOLEAN NOT NULL DEFAULT FALSE,
			short_code VARCHAR(16),
			destination TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("create qr_codes table: %w", err)
	}

	// History listing is always per-owner, newest first
	_, err = p.Pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_qr_codes_owner_created
		ON qr_codes (user_id, created_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("create qr_codes index: %w", err)
	}

	// Redirects Table (authoritative destinations for dynamic codes)
	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS redirects (
			short_code VARCHAR(16) PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			destination TEXT NOT NULL,
			label VARCHAR(256) NOT NULL DEFAULT '',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			clicks INT NOT NULL DEFAULT 0 CHECK (clicks >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("create redirects table: %w", err)
	}

	return nil
}

func (p *PostgresClient) Close() {
	p.Pool.Close()
}
