package analytics

import "time"

// SentimentTally is the read-side view of the sentiment tracker.
// Invariant: counts sum to the number of non-empty records ingested.
type SentimentTally struct {
	Counts       map[Label]int64   `json:"counts"`
	MeanCompound map[Label]float64 `json:"mean_compound"`
}

// VolumeBucket is one minute of arrival volume.
type VolumeBucket struct {
	Minute time.Time `json:"minute"`
	Count  int64     `json:"count"`
}

// Snapshot is a deep, self-consistent, read-only copy of all tracker state
// at a point in time. Immutable once returned.
type Snapshot struct {
	GeneratedAt  time.Time        `json:"generated_at"`
	TotalRecords int64            `json:"total_records"`
	EmptyRecords int64            `json:"empty_records"`
	Sentiment    SentimentTally   `json:"sentiment"`
	Volume       []VolumeBucket   `json:"volume"`
	Keywords     map[string]int64 `json:"keywords"`
	Authors      map[string]int64 `json:"authors"`
}
