// Package speech provides the speech-to-text collaborator used for voice
// input. Transcription is an opaque capability: audio bytes in, text out.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/casterlin/fable-tavern/backend/internal/config"
)

// ErrTranscriptionFailed wraps every transcription failure so callers match a
// single error kind.
var ErrTranscriptionFailed = errors.New("transcription failed")

// Transcriber maps an audio payload to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, format string) (string, error)
}

// Service talks to an OpenAI-compatible transcription endpoint.
type Service struct {
	cfg    config.SpeechConfig
	client *http.Client
}

var _ Transcriber = &Service{}

// NewService builds the transcription client from configuration.
func NewService(cfg config.SpeechConfig) *Service {
	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Transcribe sends the audio payload to the ASR endpoint and returns the
// recognized text. Format names the container, e.g. "webm" or "wav".
func (s *Service) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("%w: empty audio payload", ErrTranscriptionFailed)
	}
	if format == "" {
		format = "webm"
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "audio."+format)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}
	_ = writer.WriteField("model", s.cfg.Model)
	_ = writer.WriteField("language", s.cfg.Language)
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}

	url := strings.TrimRight(s.cfg.BaseURL, "/") + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: asr endpoint returned %d: %s",
			ErrTranscriptionFailed, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}
	if strings.TrimSpace(payload.Text) == "" {
		return "", fmt.Errorf("%w: endpoint returned no text", ErrTranscriptionFailed)
	}
	return payload.Text, nil
}
