package analytics

// AuthorTracker counts records per author identity, creating entries on
// first sight. No eviction; author cardinality is assumed bounded in
// practice. Not safe for concurrent use; the Aggregator serializes access.
type AuthorTracker struct {
	counts map[string]int64
}

func NewAuthorTracker() *AuthorTracker {
	return &AuthorTracker{counts: make(map[string]int64)}
}

// Record increments the tally for one author.
func (t *AuthorTracker) Record(author string) {
	t.counts[author]++
}

// Total returns the number of records attributed so far.
func (t *AuthorTracker) Total() int64 {
	var n int64
	for _, c := range t.counts {
		n += c
	}
	return n
}

// Counts returns a copy of the per-author tallies.
func (t *AuthorTracker) Counts() map[string]int64 {
	out := make(map[string]int64, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}
