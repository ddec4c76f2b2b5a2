package passport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"verifyhr/pkg/platform/sentinel"
)

// PostgresIndex implements IndexStore on PostgreSQL. The record body is kept
// as JSONB; the asset id is the only column the read path filters on.
type PostgresIndex struct {
	pool *pgxpool.Pool
}

// NewPostgresIndex constructs a PostgreSQL-backed candidate index.
func NewPostgresIndex(pool *pgxpool.Pool) *PostgresIndex {
	return &PostgresIndex{pool: pool}
}

// EnsureSchema creates the candidates table if it does not exist.
func (s *PostgresIndex) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS candidates (
			asset_id   BIGINT PRIMARY KEY,
			record     JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure candidates schema: %w", err)
	}
	return nil
}

func (s *PostgresIndex) FindByKey(ctx context.Context, assetID uint64) (*HolderRecord, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT record FROM candidates WHERE asset_id = $1`, int64(assetID),
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("candidate %d: %w", assetID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query candidate: %w", err)
	}

	var rec HolderRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode candidate %d: %w", assetID, err)
	}
	return &rec, nil
}

func (s *PostgresIndex) Save(ctx context.Context, rec *HolderRecord) error {
	if rec == nil || rec.AssetID == 0 {
		return fmt.Errorf("candidate record needs an asset id: %w", sentinel.ErrInvalidState)
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode candidate %d: %w", rec.AssetID, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO candidates (asset_id, record, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (asset_id) DO UPDATE SET record = EXCLUDED.record, updated_at = now()`,
		int64(rec.AssetID), raw)
	if err != nil {
		return fmt.Errorf("upsert candidate: %w", err)
	}
	return nil
}
