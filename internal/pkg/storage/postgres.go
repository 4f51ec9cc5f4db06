package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"github.com/mxxx222/TennisBot-sub003/internal/pkg/config"
	"github.com/mxxx222/TennisBot-sub003/internal/pkg/models"
)

// Ensure PostgresStore implements RecordStore
var _ RecordStore = (*PostgresStore)(nil)

// PostgresStore is the self-hosted RecordStore backend. The unique constraint
// on record_id gives cross-run dedup even when the in-memory cache is cold.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(cfg config.PostgresConfig) (*PostgresStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	store := &PostgresStore{db: db}

	if err := store.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL record store initialized")
	return store, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS tennis_fixtures (
		id SERIAL PRIMARY KEY,
		record_id VARCHAR(64) NOT NULL UNIQUE,
		tournament_name VARCHAR(500) NOT NULL,
		tier VARCHAR(10) NOT NULL,
		surface VARCHAR(20) NOT NULL,
		participant_a VARCHAR(200) NOT NULL,
		participant_b VARCHAR(200) NOT NULL,
		round VARCHAR(100) NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL,
		live_score VARCHAR(50) NOT NULL DEFAULT '',
		scheduled_time TIMESTAMP,
		price_a DECIMAL(10, 4),
		price_b DECIMAL(10, 4),
		source_timestamp TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_tennis_fixtures_record_id ON tennis_fixtures(record_id);
	CREATE INDEX IF NOT EXISTS idx_tennis_fixtures_created_at ON tennis_fixtures(created_at DESC);
	`

	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Create inserts one fixture and returns its row key as the external ID.
// A unique-violation on record_id maps to ErrDuplicateRecord.
func (s *PostgresStore) Create(ctx context.Context, record *models.MatchRecord) (string, error) {
	query := `
	INSERT INTO tennis_fixtures (
		record_id, tournament_name, tier, surface,
		participant_a, participant_b, round, status,
		live_score, scheduled_time, price_a, price_b, source_timestamp
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING id`

	var scheduled sql.NullTime
	if record.ScheduledTime != nil {
		scheduled = sql.NullTime{Time: *record.ScheduledTime, Valid: true}
	}

	var priceA, priceB sql.NullFloat64
	if record.Priced {
		priceA = sql.NullFloat64{Float64: record.PriceA, Valid: true}
		priceB = sql.NullFloat64{Float64: record.PriceB, Valid: true}
	}

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		record.ID, record.TournamentName, string(record.Tier), string(record.Surface),
		record.ParticipantA, record.ParticipantB, record.Round, string(record.Status),
		record.LiveScore, scheduled, priceA, priceB, record.SourceTimestamp,
	).Scan(&id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return "", fmt.Errorf("record %s: %w", record.ID, ErrDuplicateRecord)
		}
		return "", fmt.Errorf("insert fixture: %w", err)
	}

	return fmt.Sprintf("%d", id), nil
}

// Query returns stored records, either by explicit record IDs or the most
// recent rows up to filter.Limit.
func (s *PostgresStore) Query(ctx context.Context, filter QueryFilter) ([]StoredRecord, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if len(filter.RecordIDs) > 0 {
		rows, err = s.db.QueryContext(ctx,
			`SELECT record_id, id FROM tennis_fixtures WHERE record_id = ANY($1)`,
			pq.Array(filter.RecordIDs))
	} else {
		limit := filter.Limit
		if limit <= 0 {
			limit = 1000
		}
		rows, err = s.db.QueryContext(ctx,
			`SELECT record_id, id FROM tennis_fixtures ORDER BY created_at DESC LIMIT $1`,
			limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query fixtures: %w", err)
	}
	defer rows.Close()

	var records []StoredRecord
	for rows.Next() {
		var rec StoredRecord
		var id int64
		if err := rows.Scan(&rec.RecordID, &id); err != nil {
			return nil, fmt.Errorf("scan fixture row: %w", err)
		}
		rec.ExternalID = fmt.Sprintf("%d", id)
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
