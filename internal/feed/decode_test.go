package feed

import (
	"strings"
	"testing"

	v1 "github.com/buzzline-lab/buzzline/internal/api/v1"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecord(t *testing.T) {
	rec, err := decodeRecord([]byte(`{"message":"streaming pipelines","author":" Eve "}`))
	require.NoError(t, err)
	require.Equal(t, "streaming pipelines", rec.Text)
	require.Equal(t, "Eve", rec.Author)
	require.NotEmpty(t, rec.ID)
}

func TestDecodeRecord_KeepsClientID(t *testing.T) {
	rec, err := decodeRecord([]byte(`{"id":"rec-9","message":"hi"}`))
	require.NoError(t, err)
	require.Equal(t, "rec-9", rec.ID)
}

func TestDecodeRecord_MalformedJSON(t *testing.T) {
	_, err := decodeRecord([]byte(`{"message":`))
	require.ErrorContains(t, err, "malformed record payload")
}

func TestDecodeRecord_OversizedText(t *testing.T) {
	payload := `{"message":"` + strings.Repeat("a", v1.MaxTextBytes+1) + `"}`
	_, err := decodeRecord([]byte(payload))
	require.ErrorContains(t, err, "invalid record")
}
