package query

import (
	"net/http"
	"sort"
	"strconv"

	httperr "github.com/buzzline-lab/buzzline/internal/core/errors"
	"github.com/gin-gonic/gin"
)

const (
	defaultTopAuthors = 10
	maxTopAuthors     = 100
)

// TopAuthor is one row of the author leaderboard.
type TopAuthor struct {
	Author string `json:"author"`
	Count  int64  `json:"count"`
}

// SnapshotHandler returns the full point-in-time analytics snapshot.
func (s *Service) SnapshotHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.aggregator.Snapshot())
}

// SentimentHandler returns the sentiment distribution only.
func (s *Service) SentimentHandler(c *gin.Context) {
	snap := s.aggregator.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"generated_at": snap.GeneratedAt,
		"sentiment":    snap.Sentiment,
	})
}

// VolumeHandler returns per-minute arrival volume over the retained window.
func (s *Service) VolumeHandler(c *gin.Context) {
	snap := s.aggregator.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"generated_at": snap.GeneratedAt,
		"volume":       snap.Volume,
	})
}

// KeywordsHandler returns the tracked keyword frequencies, zero counts
// included.
func (s *Service) KeywordsHandler(c *gin.Context) {
	snap := s.aggregator.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"generated_at": snap.GeneratedAt,
		"keywords":     snap.Keywords,
	})
}

// AuthorsHandler returns the full per-author tally.
func (s *Service) AuthorsHandler(c *gin.Context) {
	snap := s.aggregator.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"generated_at": snap.GeneratedAt,
		"authors":      snap.Authors,
	})
}

// TopAuthorsHandler returns the most prolific authors, descending by count.
// Ties break alphabetically so the order is deterministic.
func (s *Service) TopAuthorsHandler(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultTopAuthors)))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid limit parameter",
		})
		return
	}
	if limit > maxTopAuthors {
		limit = maxTopAuthors
	}

	snap := s.aggregator.Snapshot()
	top := rankAuthors(snap.Authors, limit)
	c.JSON(http.StatusOK, gin.H{
		"generated_at": snap.GeneratedAt,
		"authors":      top,
	})
}

func rankAuthors(counts map[string]int64, limit int) []TopAuthor {
	ranked := make([]TopAuthor, 0, len(counts))
	for author, count := range counts {
		ranked = append(ranked, TopAuthor{Author: author, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Author < ranked[j].Author
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
