// Package db stores humanizer results in PostgreSQL or in memory.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS humanizer_results (
	id          UUID PRIMARY KEY,
	kind        TEXT NOT NULL,
	topic       TEXT NOT NULL DEFAULT '',
	tone        TEXT NOT NULL DEFAULT '',
	length      TEXT NOT NULL DEFAULT '',
	input_text  TEXT NOT NULL DEFAULT '',
	output_text TEXT NOT NULL,
	score       JSONB NOT NULL,
	filename    TEXT NOT NULL,
	model       TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS humanizer_results_created_at_idx ON humanizer_results (created_at DESC);
`

// EnsureSchema creates the results table if it does not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveResult inserts r, assigning an ID and timestamp when unset
func (db *DB) SaveResult(ctx context.Context, r *Result) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	scoreJSON, err := json.Marshal(r.Score)
	if err != nil {
		return fmt.Errorf("failed to marshal score: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO humanizer_results
		   (id, kind, topic, tone, length, input_text, output_text, score, filename, model, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		r.ID, string(r.Kind), r.Topic, r.Tone, r.Length, r.InputText, r.OutputText,
		scoreJSON, r.Filename, r.Model, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// GetResult retrieves a result by ID
func (db *DB) GetResult(ctx context.Context, id uuid.UUID) (*Result, error) {
	var (
		r         Result
		kind      string
		scoreJSON []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, kind, topic, tone, length, input_text, output_text, score, filename, model, created_at
		 FROM humanizer_results WHERE id = $1`,
		id,
	).Scan(&r.ID, &kind, &r.Topic, &r.Tone, &r.Length, &r.InputText, &r.OutputText,
		&scoreJSON, &r.Filename, &r.Model, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	r.Kind = Kind(kind)
	if err := json.Unmarshal(scoreJSON, &r.Score); err != nil {
		return nil, fmt.Errorf("failed to unmarshal score: %w", err)
	}
	return &r, nil
}

// ListResults returns up to limit results, newest first
func (db *DB) ListResults(ctx context.Context, limit int) ([]ResultSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, kind, topic, (score->>'total_score')::float8, filename, created_at
		 FROM humanizer_results ORDER BY created_at DESC LIMIT $1`,
		ClampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var out []ResultSummary
	for rows.Next() {
		var (
			s    ResultSummary
			kind string
		)
		if err := rows.Scan(&s.ID, &kind, &s.Topic, &s.TotalScore, &s.Filename, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		s.Kind = Kind(kind)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}
	return out, nil
}

