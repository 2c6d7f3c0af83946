package feed

import (
	"github.com/buzzline-lab/buzzline/internal/core/analytics"
	"github.com/buzzline-lab/buzzline/internal/core/storage"
	"github.com/gin-gonic/gin"
)

// Service is the HTTP feed: it parses incoming messages, optionally archives
// them, applies them to the aggregator, and acknowledges with the response.
// The archive store may be nil (archive disabled).
type Service struct {
	aggregator       *analytics.Aggregator
	store            storage.RecordStore
	maxBodySizeBytes int
}

func NewService(agg *analytics.Aggregator, store storage.RecordStore, maxBodySizeMB int) *Service {
	if agg == nil {
		panic("feed: aggregator must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		aggregator:       agg,
		store:            store,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// RegisterRoutes registers the feed routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/messages", s.IngestHandler)
	r.GET("/v1/messages", s.ListArchivedHandler)
}
