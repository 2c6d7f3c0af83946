package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	v1 "github.com/buzzline-lab/buzzline/internal/api/v1"
	"github.com/buzzline-lab/buzzline/internal/core/analytics"
	httperr "github.com/buzzline-lab/buzzline/internal/core/errors"
	"github.com/buzzline-lab/buzzline/internal/core/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// classifierFunc adapts a plain function to the analytics.Classifier interface.
type classifierFunc func(text string) (float64, error)

func (f classifierFunc) Compound(text string) (float64, error) { return f(text) }

// fakeStore is an in-memory storage.RecordStore for handler tests.
type fakeStore struct {
	saved   []*v1.Record
	seen    map[string]bool
	saveErr error
	listErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{seen: make(map[string]bool)}
}

func (s *fakeStore) SaveRecord(_ context.Context, rec *v1.Record) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if s.seen[rec.ID] {
		return storage.ErrDuplicate
	}
	s.seen[rec.ID] = true
	s.saved = append(s.saved, rec)
	rec.IngestSeq = int64(len(s.saved))
	return nil
}

func (s *fakeStore) RetrieveRecordsAfterCursor(_ context.Context, cursor int64, limit int) ([]*v1.Record, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []*v1.Record
	for _, rec := range s.saved {
		if rec.IngestSeq > cursor && len(out) < limit {
			out = append(out, rec)
		}
	}
	return out, nil
}

func newTestService(t *testing.T, store storage.RecordStore) (*Service, *analytics.Aggregator, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	positive := classifierFunc(func(text string) (float64, error) {
		if strings.Contains(text, "love") {
			return 0.6, nil
		}
		return 0, nil
	})
	agg, err := analytics.NewAggregator(positive, []string{"Kafka", "Python", "data"}, 100)
	require.NoError(t, err)

	svc := NewService(agg, store, 1)
	r := gin.New()
	svc.RegisterRoutes(r)
	return svc, agg, r
}

func postMessage(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/messages", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestIngestHandler_Success(t *testing.T) {
	_, agg, r := newTestService(t, nil)

	resp := postMessage(r, `{"message":"I love Kafka and Python","author":"Eve"}`)
	require.Equal(t, http.StatusAccepted, resp.Code)

	var result map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.Equal(t, "accepted", result["status"])
	require.NotEmpty(t, result["id"])

	snap := agg.Snapshot()
	require.Equal(t, int64(1), snap.TotalRecords)
	require.Equal(t, int64(1), snap.Authors["Eve"])
	require.Equal(t, int64(1), snap.Keywords["Kafka"])
	require.Equal(t, int64(1), snap.Sentiment.Counts[analytics.LabelPositive])
}

func TestIngestHandler_InvalidJSON(t *testing.T) {
	_, agg, r := newTestService(t, nil)

	resp := postMessage(r, "not json")
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	require.Equal(t, httperr.HttpInvalidJsonError, errResp.ErrorType)

	// Malformed input never reaches the aggregator.
	require.Zero(t, agg.Snapshot().TotalRecords)
}

func TestIngestHandler_BodyTooLarge(t *testing.T) {
	_, _, r := newTestService(t, nil)

	big := `{"message":"` + strings.Repeat("a", 2*1024*1024) + `"}`
	resp := postMessage(r, big)
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
}

func TestIngestHandler_EmptyTextAccepted(t *testing.T) {
	_, agg, r := newTestService(t, nil)

	resp := postMessage(r, `{"message":"","author":"Eve"}`)
	require.Equal(t, http.StatusAccepted, resp.Code)

	snap := agg.Snapshot()
	require.Equal(t, int64(1), snap.TotalRecords)
	require.Equal(t, int64(1), snap.EmptyRecords)
}

func TestIngestHandler_MissingAuthorUsesSentinel(t *testing.T) {
	_, agg, r := newTestService(t, nil)

	resp := postMessage(r, `{"message":"hello there"}`)
	require.Equal(t, http.StatusAccepted, resp.Code)
	require.Equal(t, int64(1), agg.Snapshot().Authors[v1.AuthorUnknown])
}

func TestIngestHandler_DuplicateNotDoubleCounted(t *testing.T) {
	store := newFakeStore()
	_, agg, r := newTestService(t, store)

	body := `{"id":"rec-1","message":"I love Kafka","author":"Eve"}`
	first := postMessage(r, body)
	require.Equal(t, http.StatusAccepted, first.Code)

	second := postMessage(r, body)
	require.Equal(t, http.StatusAccepted, second.Code)

	var result map[string]string
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &result))
	require.Equal(t, "duplicate", result["status"])

	require.Equal(t, int64(1), agg.Snapshot().TotalRecords)
	require.Len(t, store.saved, 1)
}

func TestIngestHandler_ArchiveFailure(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("db down")
	_, agg, r := newTestService(t, store)

	resp := postMessage(r, `{"message":"hello"}`)
	require.Equal(t, http.StatusInternalServerError, resp.Code)

	// No acknowledgment means no ingestion: the sender will redeliver.
	require.Zero(t, agg.Snapshot().TotalRecords)
}

func TestListArchivedHandler(t *testing.T) {
	store := newFakeStore()
	_, _, r := newTestService(t, store)

	for _, body := range []string{
		`{"id":"rec-1","message":"one"}`,
		`{"id":"rec-2","message":"two"}`,
	} {
		require.Equal(t, http.StatusAccepted, postMessage(r, body).Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/messages?cursor=0&limit=10", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var result struct {
		Records    []v1.Record `json:"records"`
		NextCursor int64       `json:"next_cursor"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.Len(t, result.Records, 2)
	require.Equal(t, int64(2), result.NextCursor)
	require.False(t, result.Records[0].ObservedAt.After(time.Now().UTC()))
}

func TestListArchivedHandler_ArchiveDisabled(t *testing.T) {
	_, _, r := newTestService(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/messages", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusNotFound, resp.Code)

	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	require.Equal(t, httperr.HttpArchiveDisabledError, errResp.ErrorType)
}

func TestListArchivedHandler_BadParams(t *testing.T) {
	store := newFakeStore()
	_, _, r := newTestService(t, store)

	for _, target := range []string{
		"/v1/messages?cursor=abc",
		"/v1/messages?cursor=-1",
		"/v1/messages?limit=0",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		require.Equal(t, http.StatusBadRequest, resp.Code, target)
	}
}
