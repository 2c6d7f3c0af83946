// Package query exposes the read side of the analytics core over HTTP.
// Every endpoint is a pull against a point-in-time aggregator snapshot;
// queries never block or mutate ingestion.
package query

import (
	"github.com/buzzline-lab/buzzline/internal/core/analytics"
	"github.com/gin-gonic/gin"
)

// Service serves analytics query endpoints backed by a single aggregator.
type Service struct {
	aggregator *analytics.Aggregator
}

func NewService(agg *analytics.Aggregator) *Service {
	if agg == nil {
		panic("query: aggregator must not be nil")
	}
	return &Service{aggregator: agg}
}

// RegisterRoutes mounts the query endpoints onto the router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/analytics", s.SnapshotHandler)
	r.GET("/v1/analytics/sentiment", s.SentimentHandler)
	r.GET("/v1/analytics/volume", s.VolumeHandler)
	r.GET("/v1/analytics/keywords", s.KeywordsHandler)
	r.GET("/v1/analytics/authors", s.AuthorsHandler)
	r.GET("/v1/analytics/authors/top", s.TopAuthorsHandler)
}
