package storage

import (
	"context"
	"errors"

	v1 "github.com/buzzline-lab/buzzline/internal/api/v1"
)

// ErrDuplicate is returned when a record with the same ID was already archived.
var ErrDuplicate = errors.New("record already archived")

// RecordStore is the optional write-through archive for raw records.
// It persists inputs, not analytics state; the aggregator never reads it.
type RecordStore interface {
	// SaveRecord persists one record and populates record.IngestSeq.
	// Returns ErrDuplicate when the record ID was already archived, which
	// lets at-least-once feeds dedupe redelivery.
	SaveRecord(ctx context.Context, record *v1.Record) error

	// RetrieveRecordsAfterCursor fetches archived records after a cursor
	// (ingest_seq) in strict total order. cursor=0 means "from the beginning".
	RetrieveRecordsAfterCursor(ctx context.Context, cursor int64, limit int) ([]*v1.Record, error)
}
