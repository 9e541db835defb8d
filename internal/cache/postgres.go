package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const createArtifactsTable = `
CREATE TABLE IF NOT EXISTS cache_artifacts (
	name       TEXT PRIMARY KEY,
	payload    BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// pgQuerier is the subset of *pgxpool.Pool the backend needs
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresBackend keeps artifacts as rows of cache_artifacts.
// An upsert replaces the whole payload in one statement.
type PostgresBackend struct {
	db pgQuerier
}

// NewPostgresBackend creates the backend and ensures its table exists
func NewPostgresBackend(ctx context.Context, db pgQuerier) (*PostgresBackend, error) {
	if _, err := db.Exec(ctx, createArtifactsTable); err != nil {
		return nil, fmt.Errorf("create cache_artifacts: %w", err)
	}
	return &PostgresBackend{db: db}, nil
}

func (b *PostgresBackend) Name() string { return "postgres" }

func (b *PostgresBackend) Exists(ctx context.Context, a Artifact) (bool, error) {
	var exists bool
	err := b.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM cache_artifacts WHERE name = $1)`, string(a),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query artifact: %w", err)
	}
	return exists, nil
}

func (b *PostgresBackend) Read(ctx context.Context, a Artifact) ([]byte, error) {
	var payload []byte
	err := b.db.QueryRow(ctx,
		`SELECT payload FROM cache_artifacts WHERE name = $1`, string(a),
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query artifact: %w", err)
	}
	return payload, nil
}

func (b *PostgresBackend) Write(ctx context.Context, a Artifact, data []byte) error {
	_, err := b.db.Exec(ctx, `
		INSERT INTO cache_artifacts (name, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		string(a), data,
	)
	if err != nil {
		return fmt.Errorf("upsert artifact: %w", err)
	}
	return nil
}
