package speech

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/casterlin/fable-tavern/backend/internal/config"
)

func newTestService(baseURL string) *Service {
	return NewService(config.SpeechConfig{
		BaseURL:  baseURL,
		APIKey:   "test-key",
		Model:    "whisper-1",
		Language: "en",
		Timeout:  5 * time.Second,
	})
}

func TestTranscribeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "whisper-1", r.FormValue("model"))
		require.Equal(t, "en", r.FormValue("language"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "audio.wav", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"what is virtue"}`))
	}))
	defer srv.Close()

	svc := newTestService(srv.URL)
	text, err := svc.Transcribe(context.Background(), []byte("fake-pcm"), "wav")
	require.NoError(t, err)
	require.Equal(t, "what is virtue", text)
}

func TestTranscribeEndpointError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := newTestService(srv.URL)
	_, err := svc.Transcribe(context.Background(), []byte("fake-pcm"), "webm")
	require.ErrorIs(t, err, ErrTranscriptionFailed)
	require.Contains(t, err.Error(), "429")
}

func TestTranscribeEmptyAudio(t *testing.T) {
	svc := newTestService("http://localhost:0")
	_, err := svc.Transcribe(context.Background(), nil, "wav")
	require.ErrorIs(t, err, ErrTranscriptionFailed)
}

func TestTranscribeEmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"  "}`))
	}))
	defer srv.Close()

	svc := newTestService(srv.URL)
	_, err := svc.Transcribe(context.Background(), []byte("fake-pcm"), "wav")
	require.ErrorIs(t, err, ErrTranscriptionFailed)
}

func TestTranscribeUnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	svc := newTestService(srv.URL)
	_, err := svc.Transcribe(context.Background(), []byte("fake-pcm"), "wav")
	require.ErrorIs(t, err, ErrTranscriptionFailed)
	require.False(t, errors.Is(err, context.Canceled))
}
