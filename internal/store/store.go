// Package store persists ledger records as opaque JSON blobs in
// PostgreSQL. The durable unit is the whole record: the ledger is loaded
// once at startup and written back as full snapshots, so the schema is a
// single keyed blob table rather than per-field columns.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"telegram-lottery-bot/internal/model"
)

// Store reads and writes ledger records to PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by the given connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate creates the ledger_records table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS ledger_records (
			user_id BIGINT PRIMARY KEY,
			record JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create ledger_records table: %w", err)
	}
	return nil
}

// Load reads every record. Called once at startup; the caller treats a
// failure as fatal, because starting with a partial ledger would silently
// zero balances.
func (s *Store) Load(ctx context.Context) (map[int64]*model.LedgerRecord, error) {
	const query = `SELECT user_id, record FROM ledger_records`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger records: %w", err)
	}
	defer rows.Close()

	records := make(map[int64]*model.LedgerRecord)
	for rows.Next() {
		var (
			userID int64
			blob   []byte
		)
		if err := rows.Scan(&userID, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan ledger record: %w", err)
		}

		var rec model.LedgerRecord
		if err := json.Unmarshal(blob, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode record for user %d: %w", userID, err)
		}
		// The key column is authoritative over the blob's own field
		rec.UserID = userID
		records[userID] = &rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger records: %w", err)
	}

	return records, nil
}

// Save upserts the given snapshot in one batch. A failed save leaves the
// previous durable state intact; the next snapshot tick retries with
// fresher data.
func (s *Store) Save(ctx context.Context, records map[int64]*model.LedgerRecord) error {
	if len(records) == 0 {
		return nil
	}

	const query = `
		INSERT INTO ledger_records (user_id, record, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET record = EXCLUDED.record, updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for userID, rec := range records {
		blob, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record for user %d: %w", userID, err)
		}
		batch.Queue(query, userID, blob)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to save ledger record: %w", err)
		}
	}

	log.Debug().Int("records", len(records)).Msg("Ledger snapshot saved")
	return nil
}
