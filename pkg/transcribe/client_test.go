package transcribe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mferrors "github.com/otherjamesbrown/meetflow/pkg/errors"
	"github.com/otherjamesbrown/meetflow/pkg/logging"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meeting.m4a")
	require.NoError(t, os.WriteFile(path, []byte("fake audio bytes"), 0o644))
	return path
}

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "medium", r.FormValue("model"))
		assert.Equal(t, "en", r.FormValue("language"))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))

		_, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "meeting.m4a", hdr.Filename)

		json.NewEncoder(w).Encode(Transcript{
			Text:     "hello team",
			Language: "en",
			Segments: []Segment{{Start: 0, End: 2.5, Text: "hello team"}},
		})
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL}, logging.NewNopLogger())
	require.NoError(t, err)

	tr, err := c.Transcribe(context.Background(), writeAudio(t), Options{Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, "hello team", tr.Text)
	assert.Equal(t, "en", tr.Language)
	require.Len(t, tr.Segments, 1)
}

func TestTranscribe_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	_, err = c.Transcribe(context.Background(), writeAudio(t), Options{})
	require.Error(t, err)

	pe := mferrors.Classify(err, mferrors.StageTranscription)
	assert.Equal(t, mferrors.ErrAPIError, pe.Code)
}

func TestTranscribe_EmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Transcript{})
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	_, err = c.Transcribe(context.Background(), writeAudio(t), Options{})
	require.Error(t, err)

	pe := mferrors.Classify(err, mferrors.StageTranscription)
	assert.Equal(t, mferrors.ErrEmptyContent, pe.Code)
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{}, nil)
	require.Error(t, err)
	assert.True(t, mferrors.IsConfiguration(err))
}
