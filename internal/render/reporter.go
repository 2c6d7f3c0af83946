// Package render periodically pulls aggregator snapshots and emits a
// structured summary. It is the operational replacement for an inline
// dashboard: rendering is a consumer of snapshots, never part of the
// ingest path.
package render

import (
	"context"
	"log/slog"
	"time"

	"github.com/buzzline-lab/buzzline/internal/core/analytics"
)

// Reporter logs a snapshot summary on a fixed interval.
type Reporter struct {
	aggregator *analytics.Aggregator
	interval   time.Duration
}

func NewReporter(agg *analytics.Aggregator, interval time.Duration) *Reporter {
	if agg == nil {
		panic("render: aggregator must not be nil")
	}
	return &Reporter{aggregator: agg, interval: interval}
}

// Start runs the report loop until the context is cancelled, then emits one
// final summary so the last state is always visible in the logs.
func (r *Reporter) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	slog.Info("[Reporter] Starting snapshot reporter", "interval", r.interval)

	for {
		select {
		case <-ticker.C:
			r.report()
		case <-ctx.Done():
			slog.Info("[Reporter] Stopping (context cancelled)")
			r.report()
			return nil
		}
	}
}

func (r *Reporter) report() {
	snap := r.aggregator.Snapshot()
	slog.Info("[Reporter] Analytics snapshot",
		"generated_at", snap.GeneratedAt,
		"total_records", snap.TotalRecords,
		"empty_records", snap.EmptyRecords,
		"positive", snap.Sentiment.Counts[analytics.LabelPositive],
		"neutral", snap.Sentiment.Counts[analytics.LabelNeutral],
		"negative", snap.Sentiment.Counts[analytics.LabelNegative],
		"volume_buckets", len(snap.Volume),
		"keywords", snap.Keywords,
		"authors", len(snap.Authors),
	)
}
