package analytics

import (
	"github.com/shopspring/decimal"
)

// Label is a sentiment classification outcome.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

// Labels lists all classification labels in display order.
var Labels = []Label{LabelPositive, LabelNeutral, LabelNegative}

// Compound-score thresholds, matching the VADER convention used by the
// upstream classifier: >= 0.05 positive, <= -0.05 negative, else neutral.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// LabelFor maps a compound score in [-1, 1] to a classification label.
func LabelFor(compound float64) Label {
	switch {
	case compound >= positiveThreshold:
		return LabelPositive
	case compound <= negativeThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// SentimentTracker tallies classification outcomes and accumulates the exact
// compound-score sum per label so snapshots can report a mean compound.
// Not safe for concurrent use; the Aggregator serializes all mutations.
type SentimentTracker struct {
	counts      map[Label]int64
	compoundSum map[Label]decimal.Decimal
}

func NewSentimentTracker() *SentimentTracker {
	t := &SentimentTracker{
		counts:      make(map[Label]int64, len(Labels)),
		compoundSum: make(map[Label]decimal.Decimal, len(Labels)),
	}
	for _, l := range Labels {
		t.counts[l] = 0
		t.compoundSum[l] = decimal.Zero
	}
	return t
}

// Record tallies one classified record under the given label.
func (t *SentimentTracker) Record(label Label, compound float64) {
	t.counts[label]++
	t.compoundSum[label] = t.compoundSum[label].Add(decimal.NewFromFloat(compound))
}

// Total returns the number of records classified so far.
func (t *SentimentTracker) Total() int64 {
	var n int64
	for _, c := range t.counts {
		n += c
	}
	return n
}

// Tally returns a copy of the current per-label counts and mean compound
// scores. All labels are present, zero counts included.
func (t *SentimentTracker) Tally() SentimentTally {
	tally := SentimentTally{
		Counts:       make(map[Label]int64, len(Labels)),
		MeanCompound: make(map[Label]float64, len(Labels)),
	}
	for _, l := range Labels {
		n := t.counts[l]
		tally.Counts[l] = n
		if n == 0 {
			tally.MeanCompound[l] = 0
			continue
		}
		mean, _ := t.compoundSum[l].Div(decimal.NewFromInt(n)).Round(4).Float64()
		tally.MeanCompound[l] = mean
	}
	return tally
}
