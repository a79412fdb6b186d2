package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps every record in a single table keyed by
// (collection, key), with the payload as JSONB.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgres builds a store backed by PostgreSQL.
func NewPostgres(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the records table if it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS records (
        collection TEXT NOT NULL,
        key        TEXT NOT NULL,
        record     JSONB NOT NULL,
        PRIMARY KEY (collection, key)
    )`)
	if err != nil {
		return fmt.Errorf("ensure records table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, collection, key string, record []byte) error {
	cmd, err := s.db.Exec(ctx, `INSERT INTO records (collection, key, record)
        VALUES ($1, $2, $3) ON CONFLICT (collection, key) DO NOTHING`, collection, key, record)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrExists
	}
	return nil
}

func (s *PostgresStore) Read(ctx context.Context, collection, key string) ([]byte, error) {
	row := s.db.QueryRow(ctx, `SELECT record FROM records WHERE collection = $1 AND key = $2`, collection, key)
	var record []byte
	if err := row.Scan(&record); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select record: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) Update(ctx context.Context, collection, key string, record []byte) error {
	cmd, err := s.db.Exec(ctx, `UPDATE records SET record = $3 WHERE collection = $1 AND key = $2`, collection, key, record)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, key string) error {
	cmd, err := s.db.Exec(ctx, `DELETE FROM records WHERE collection = $1 AND key = $2`, collection, key)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
