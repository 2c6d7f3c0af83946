package analytics

import (
	"log/slog"
	"sync"
	"time"

	v1 "github.com/buzzline-lab/buzzline/internal/api/v1"
)

// Classifier scores free text with a compound sentiment score in [-1, 1].
// Implementations live outside the core; a failing classifier is treated as
// neutral with zero confidence, never as an ingest error.
type Classifier interface {
	Compound(text string) (float64, error)
}

// Aggregator exclusively owns all tracker state. Ingest applies every record
// exactly once, in lock-acquisition order, inside a single critical section
// covering all four trackers; Snapshot takes a consistent deep copy and may
// run concurrently with other snapshots.
type Aggregator struct {
	classifier Classifier

	mu           sync.RWMutex
	sentiment    *SentimentTracker
	volume       *VolumeWindow
	keywords     *KeywordTracker
	authors      *AuthorTracker
	total        int64
	empty        int64
	lastObserved time.Time

	now func() time.Time // swapped out in tests
}

// NewAggregator constructs all trackers for the process lifetime.
// The keyword set and volume capacity are fixed at construction.
func NewAggregator(classifier Classifier, keywords []string, volumeCapacity int) (*Aggregator, error) {
	if classifier == nil {
		panic("analytics: classifier must not be nil")
	}
	kt, err := NewKeywordTracker(keywords)
	if err != nil {
		return nil, err
	}
	return &Aggregator{
		classifier: classifier,
		sentiment:  NewSentimentTracker(),
		volume:     NewVolumeWindow(volumeCapacity),
		keywords:   kt,
		authors:    NewAuthorTracker(),
		now:        time.Now,
	}, nil
}

// Ingest applies one record to all trackers and stamps rec.ObservedAt.
// Never fails on well-formed input: empty text updates the author and volume
// trackers only, and a classifier failure scores as neutral.
func (a *Aggregator) Ingest(rec *v1.Record) {
	empty := rec.EmptyText()

	// Classification happens outside the critical section; it touches no
	// tracker state and may be slow.
	var compound float64
	if !empty {
		c, err := a.classifier.Compound(rec.Text)
		if err != nil {
			slog.Warn("Classifier unavailable, scoring neutral",
				"record_id", rec.ID,
				"error", err)
		} else {
			compound = c
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Server-assigned arrival timestamp, monotonically non-decreasing so
	// volume bucket keys never go backwards.
	observed := a.now().UTC()
	if observed.Before(a.lastObserved) {
		observed = a.lastObserved
	}
	a.lastObserved = observed
	rec.ObservedAt = observed

	a.volume.Observe(observed)
	a.authors.Record(rec.AuthorOrUnknown())
	if empty {
		a.empty++
	} else {
		a.sentiment.Record(LabelFor(compound), compound)
		a.keywords.Score(rec.Text)
	}
	a.total++
}

// Snapshot returns a deep, consistent, read-only copy of all tracker state.
// Safe to call while Ingest is in progress; concurrent snapshots do not
// block each other.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return Snapshot{
		GeneratedAt:  a.now().UTC(),
		TotalRecords: a.total,
		EmptyRecords: a.empty,
		Sentiment:    a.sentiment.Tally(),
		Volume:       a.volume.Buckets(),
		Keywords:     a.keywords.Counts(),
		Authors:      a.authors.Counts(),
	}
}
