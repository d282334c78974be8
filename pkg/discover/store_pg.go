package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore keeps one JSONB row per catalog entry in PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore connects, verifies the connection and creates the table.
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &PGStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return s, nil
}

// migrate creates the entries table
func (s *PGStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS constellation_entries (
		kind TEXT NOT NULL,
		key TEXT NOT NULL,
		position INTEGER NOT NULL,
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (kind, key)
	);

	CREATE INDEX IF NOT EXISTS idx_constellation_entries_order ON constellation_entries(kind, position);
	`

	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *PGStore) Name() string { return "postgres" }

// Ping checks database connectivity
func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PGStore) Load(ctx context.Context) (*State, error) {
	query := `
		SELECT kind, payload
		FROM constellation_entries
		ORDER BY kind, position
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	defer rows.Close()

	state := emptyState()
	for rows.Next() {
		var kind string
		var payload []byte
		if err := rows.Scan(&kind, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}

		var entry Entry
		if err := json.Unmarshal(payload, &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s entry: %w", kind, err)
		}

		switch Kind(kind) {
		case KindOriginal:
			state.Original = &entry
		case KindDiscovered:
			state.Discovered = append(state.Discovered, entry)
		case KindFused:
			state.Fused = append(state.Fused, entry)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}
	return state, nil
}

// Save replaces every row in one transaction.
func (s *PGStore) Save(ctx context.Context, state *State) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	if _, err := tx.Exec(ctx, `DELETE FROM constellation_entries`); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}

	insert := `
		INSERT INTO constellation_entries (kind, key, position, payload, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	now := time.Now().UTC()
	write := func(e *Entry, position int) error {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		if _, err := tx.Exec(ctx, insert, string(e.Kind), e.Key, position, payload, now); err != nil {
			return fmt.Errorf("failed to insert %s entry: %w", e.Kind, err)
		}
		return nil
	}

	if state.Original != nil {
		if err := write(state.Original, 0); err != nil {
			return err
		}
	}
	for i := range state.Discovered {
		if err := write(&state.Discovered[i], i); err != nil {
			return err
		}
	}
	for i := range state.Fused {
		if err := write(&state.Fused[i], i); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Close closes the database connection pool
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}
