// Package db is the optional persistence collaborator: it snapshots the
// session store's contents into Postgres. The engine never reads it back;
// a process restart still starts with empty sessions.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/mayra0000/ETSChatbot/config"
)

type SnapshotStore struct {
	pool *pgxpool.Pool
}

func NewSnapshotStore(cfg *config.Config) (*SnapshotStore, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.DBName, cfg.DB.SSLMode, cfg.DB.MaxOpenConns,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB connection string: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.DB.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.DB.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.DB.ConnLifetime
	poolConfig.MaxConnIdleTime = 15 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SnapshotStore{pool: pool}, nil
}

func (s *SnapshotStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema creates the snapshot table if it is missing.
func (s *SnapshotStore) InitSchema(ctx context.Context) error {
	query := `
        CREATE TABLE IF NOT EXISTS session_snapshots (
            user_id    BIGINT PRIMARY KEY,
            session    JSONB NOT NULL,
            profile    JSONB NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )
    `
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create snapshot schema: %w", err)
	}
	return nil
}

// SaveSnapshot upserts one user's session and profile as JSON.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, userID int64, sessionJSON, profileJSON []byte) error {
	query := `
        INSERT INTO session_snapshots (user_id, session, profile, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (user_id) DO UPDATE
        SET session = $2, profile = $3, updated_at = NOW()
    `
	if _, err := s.pool.Exec(ctx, query, userID, sessionJSON, profileJSON); err != nil {
		return fmt.Errorf("failed to save snapshot for user %d: %w", userID, err)
	}
	return nil
}
