package feed

import (
	"encoding/json"
	"fmt"

	v1 "github.com/buzzline-lab/buzzline/internal/api/v1"
)

// decodeRecord parses one raw feed payload into a normalized, validated
// record. Shared by the Kafka feed; the HTTP feed binds through gin instead.
func decodeRecord(payload []byte) (*v1.Record, error) {
	var rec v1.Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("malformed record payload: %w", err)
	}
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid record: %w", err)
	}
	return &rec, nil
}
