package analytics

import (
	"fmt"
	"regexp"
	"strings"
)

// KeywordTracker counts whole-word, case-insensitive keyword occurrences
// against a set fixed at construction. A record increments each matching
// keyword by at most 1 regardless of repeats within that record. Boundary
// matching is deliberate: "Pythonic" does not match "Python".
// Not safe for concurrent use; the Aggregator serializes access.
type KeywordTracker struct {
	keywords []string // configured casing, construction order
	patterns []*regexp.Regexp
	counts   map[string]int64
}

// NewKeywordTracker compiles one boundary-matching pattern per keyword.
// Blank entries are skipped; case-insensitive duplicates keep the first
// casing seen.
func NewKeywordTracker(keywords []string) (*KeywordTracker, error) {
	t := &KeywordTracker{counts: make(map[string]int64, len(keywords))}
	seen := make(map[string]struct{}, len(keywords))

	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		lower := strings.ToLower(kw)
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}

		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("keyword %q: %w", kw, err)
		}
		t.keywords = append(t.keywords, kw)
		t.patterns = append(t.patterns, re)
		t.counts[kw] = 0
	}
	return t, nil
}

// Score scans the text once per keyword and increments matches by 1 each.
func (t *KeywordTracker) Score(text string) {
	for i, re := range t.patterns {
		if re.MatchString(text) {
			t.counts[t.keywords[i]]++
		}
	}
}

// Keywords returns the configured set in construction order.
func (t *KeywordTracker) Keywords() []string {
	out := make([]string, len(t.keywords))
	copy(out, t.keywords)
	return out
}

// Counts returns a copy of the per-keyword tallies, zero counts included.
func (t *KeywordTracker) Counts() map[string]int64 {
	out := make(map[string]int64, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}
