package v1

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxTextBytes is the upper bound on record text accepted by the feed.
// Anything larger is rejected as malformed before reaching the aggregator.
const MaxTextBytes = 64 * 1024

// AuthorUnknown is the sentinel identity used when a record carries no author.
const AuthorUnknown = "unknown"

// Record is the atomic unit of the stream: one short text message with
// optional author attribution.
type Record struct {
	// ID is a unique identifier for the record. Clients may supply one;
	// otherwise the feed assigns a UUID on normalization. It is the
	// idempotency key for the optional record archive.
	ID string `json:"id,omitempty"`

	// Text is the free-text content to analyze. The JSON field is "message"
	// to match the upstream producer wire format. Empty text is allowed and
	// treated as a degenerate record (counted, not scored).
	Text string `json:"message"`

	// Author identifies who produced the message. Optional; defaults to
	// AuthorUnknown during analytics attribution.
	Author string `json:"author,omitempty"`

	// ObservedAt is when the aggregator applied this record. Assigned at
	// ingest time by the aggregator (server-side clock), never by the
	// sender, so bucket keys are monotonically non-decreasing.
	ObservedAt time.Time `json:"observed_at,omitempty"`

	// IngestSeq is a monotonic sequence number assigned by the archive on
	// insert. Zero when the archive is disabled. Not exposed on the wire.
	IngestSeq int64 `json:"-"`
}

// Normalize fills in server-assigned defaults. Must be called by the feed
// before Validate.
func (r *Record) Normalize() {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.Author = strings.TrimSpace(r.Author)
}

// Validate ensures the record is structurally acceptable.
// Empty text is valid; oversized text and a missing ID are not.
func (r *Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("id is required (call Normalize first)")
	}
	if len(r.Text) > MaxTextBytes {
		return fmt.Errorf("message exceeds %d bytes", MaxTextBytes)
	}
	return nil
}

// AuthorOrUnknown returns the author identity used for attribution.
func (r *Record) AuthorOrUnknown() string {
	if r.Author == "" {
		return AuthorUnknown
	}
	return r.Author
}

// EmptyText reports whether the record has no analyzable content.
// Whitespace-only text counts as empty.
func (r *Record) EmptyText() bool {
	return strings.TrimSpace(r.Text) == ""
}
