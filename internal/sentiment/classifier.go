// Package sentiment provides the text classifier collaborator consumed by
// the analytics aggregator.
package sentiment

import (
	"github.com/jonreiter/govader"
)

// VADER scores text with the VADER lexicon. Scores are deterministic and
// the analyzer is stateless after construction, so one instance can serve
// concurrent callers.
type VADER struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVADER builds the lexicon once; construction is the expensive part.
func NewVADER() *VADER {
	return &VADER{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Compound returns the compound polarity score in [-1, 1].
func (v *VADER) Compound(text string) (float64, error) {
	return v.analyzer.PolarityScores(text).Compound, nil
}
