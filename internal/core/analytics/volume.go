package analytics

import (
	"sort"
	"time"
)

// DefaultVolumeCapacity is the number of raw arrival timestamps retained
// when no capacity is configured.
const DefaultVolumeCapacity = 100

// BucketFor truncates a timestamp to the nearest granularity boundary.
// Example: BucketFor(10:35:42, 1*time.Minute) → 10:35:00
func BucketFor(t time.Time, granularity time.Duration) time.Time {
	return t.Truncate(granularity)
}

// VolumeWindow retains the most recent K raw arrival timestamps in a fixed
// ring and re-derives per-minute counts on read. Eviction is FIFO by
// insertion, O(1); memory is bounded by capacity regardless of stream
// length. Not safe for concurrent use; the Aggregator serializes access.
type VolumeWindow struct {
	buf  []time.Time
	head int
	size int
}

func NewVolumeWindow(capacity int) *VolumeWindow {
	if capacity <= 0 {
		capacity = DefaultVolumeCapacity
	}
	return &VolumeWindow{buf: make([]time.Time, capacity)}
}

// Observe records one arrival, evicting the oldest timestamp when full.
func (w *VolumeWindow) Observe(t time.Time) {
	if w.size < len(w.buf) {
		w.buf[(w.head+w.size)%len(w.buf)] = t
		w.size++
		return
	}
	w.buf[w.head] = t
	w.head = (w.head + 1) % len(w.buf)
}

// Len returns the number of retained timestamps.
func (w *VolumeWindow) Len() int { return w.size }

// Capacity returns the fixed retention limit.
func (w *VolumeWindow) Capacity() int { return len(w.buf) }

// Buckets groups the retained timestamps into minute buckets, sorted by
// bucket key ascending. Missing minutes are absent, not zero-filled.
func (w *VolumeWindow) Buckets() []VolumeBucket {
	if w.size == 0 {
		return nil
	}

	counts := make(map[time.Time]int64)
	for i := 0; i < w.size; i++ {
		key := BucketFor(w.buf[(w.head+i)%len(w.buf)], time.Minute)
		counts[key]++
	}

	keys := make([]time.Time, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	buckets := make([]VolumeBucket, 0, len(keys))
	for _, k := range keys {
		buckets = append(buckets, VolumeBucket{Minute: k, Count: counts[k]})
	}
	return buckets
}
