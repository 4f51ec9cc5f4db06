package storage

import (
	"context"
	"errors"

	"github.com/mxxx222/TennisBot-sub003/internal/pkg/models"
)

// ErrDuplicateRecord is returned by Create when the external store already
// holds a record with the same record ID. The pipeline counts it as a
// duplicate, not an error, which closes the cross-run dedup gap left by a
// process-lifetime-only cache.
var ErrDuplicateRecord = errors.New("storage: record already exists")

// StoredRecord is the minimal view of an already-ingested record.
type StoredRecord struct {
	RecordID   string `json:"record_id"`
	ExternalID string `json:"external_id"`
}

// QueryFilter narrows a Query call. Empty RecordIDs means "recent records up
// to Limit", used to warm the idempotency cache at startup.
type QueryFilter struct {
	RecordIDs []string
	Limit     int
}

// RecordStore is the external append-only store fixtures are ingested into.
type RecordStore interface {
	// Create pushes one record and returns the store's external ID.
	// Returns ErrDuplicateRecord when the record ID is already present.
	Create(ctx context.Context, record *models.MatchRecord) (string, error)

	// Query returns existing records matching the filter.
	Query(ctx context.Context, filter QueryFilter) ([]StoredRecord, error)

	Close() error
}

// DedupCache is the idempotency set keyed by deterministic record IDs.
type DedupCache interface {
	// Seen reports whether the ID was already processed.
	Seen(ctx context.Context, id string) (bool, error)

	// Add marks the ID as processed.
	Add(ctx context.Context, id string) error

	Close() error
}
