package feed

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	v1 "github.com/buzzline-lab/buzzline/internal/api/v1"
	httperr "github.com/buzzline-lab/buzzline/internal/core/errors"
	"github.com/buzzline-lab/buzzline/internal/core/storage"
	"github.com/gin-gonic/gin"
)

const (
	msgReadBodyFailed  = "Failed to read request body"
	msgInvalidJSON     = "Invalid JSON body"
	msgArchiveFailed   = "Failed to archive record"
	msgArchiveDisabled = "Record archive is not enabled"

	defaultListLimit = 100
	maxListLimit     = 1000
)

// feedError carries the structured HTTP error shape from a helper back to
// the handler. Helpers return this instead of writing to gin.Context
// directly, keeping them decoupled from HTTP.
type feedError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *feedError) Error() string {
	return e.message
}

// IngestHandler handles HTTP POST requests for message ingestion.
// A 202 response is the acknowledgment: it is only sent after the record has
// been applied to the aggregator (and archived, when the archive is enabled).
func (s *Service) IngestHandler(c *gin.Context) {
	rec, payloadSize, err := s.parseRecord(c)
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("Received record",
		"record_id", rec.ID,
		"author", rec.AuthorOrUnknown(),
		"payload_size", payloadSize)

	if s.store != nil {
		if err := s.archiveRecord(c.Request.Context(), rec); err != nil {
			writeError(c, err)
			return
		}
		if rec.IngestSeq == 0 {
			// Duplicate delivery: already counted once, acknowledge without
			// re-ingesting so replays never double-count.
			c.JSON(http.StatusAccepted, gin.H{"status": "duplicate", "id": rec.ID})
			return
		}
	}

	s.aggregator.Ingest(rec)

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "id": rec.ID})
}

// parseRecord reads the raw request body and binds it into a Record.
// Returns the normalized record and the raw payload size.
func (s *Service) parseRecord(c *gin.Context) (*v1.Record, int, *feedError) {
	// Enforce maximum body size to prevent OOM attacks
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return nil, 0, &feedError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, len(bodyBytes), &feedError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var rec v1.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, len(bodyBytes), &feedError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}

	rec.Normalize()
	if err := rec.Validate(); err != nil {
		slog.Warn("Record validation failed", "error", err, "record_id", rec.ID)
		return nil, len(bodyBytes), &feedError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    err.Error(),
		}
	}

	return &rec, len(bodyBytes), nil
}

// archiveRecord writes the record through to the archive. A duplicate is not
// an error: the record keeps IngestSeq == 0 and the caller skips ingestion.
func (s *Service) archiveRecord(ctx context.Context, rec *v1.Record) *feedError {
	if err := s.store.SaveRecord(ctx, rec); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			slog.Info("Duplicate record delivery", "record_id", rec.ID)
			return nil
		}

		slog.Error("Failed to archive record", "error", err, "record_id", rec.ID)
		return &feedError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgArchiveFailed,
		}
	}

	return nil
}

// ListArchivedHandler handles GET /v1/messages?cursor=N&limit=M against the
// archive. Responds 404 when the archive is disabled.
func (s *Service) ListArchivedHandler(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpArchiveDisabledError,
			Message:   msgArchiveDisabled,
		})
		return
	}

	cursor, err := strconv.ParseInt(c.DefaultQuery("cursor", "0"), 10, 64)
	if err != nil || cursor < 0 {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid cursor parameter",
		})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid limit parameter",
		})
		return
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	records, err := s.store.RetrieveRecordsAfterCursor(c.Request.Context(), cursor, limit)
	if err != nil {
		slog.Error("Failed to list archived records", "error", err, "cursor", cursor)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to list archived records",
		})
		return
	}

	next := cursor
	if len(records) > 0 {
		next = records[len(records)-1].IngestSeq
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "next_cursor": next})
}

// writeError serializes a feedError as the JSON HTTP response.
func writeError(c *gin.Context, err *feedError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
