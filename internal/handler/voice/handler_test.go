package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/casterlin/fable-tavern/backend/internal/model/character"
	chatmodel "github.com/casterlin/fable-tavern/backend/internal/model/chat"
	chatservice "github.com/casterlin/fable-tavern/backend/internal/service/chat"
	"github.com/casterlin/fable-tavern/backend/internal/service/speech"
	"github.com/casterlin/fable-tavern/backend/internal/store/chatstore"
)

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(context.Context, []byte, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type echoBackend struct{}

func (echoBackend) Reply(_ context.Context, _ character.Character, _ []chatmodel.Message, utterance string) (string, error) {
	return "heard: " + utterance, nil
}

func setupRouter(transcriber speech.Transcriber) (*chi.Mux, *chatservice.Service) {
	store := chatstore.NewMemoryStore()
	characters := character.NewMemoryStore(character.Seed())
	chatSvc := chatservice.NewService(characters, store, store, echoBackend{}, chatservice.Options{})

	r := chi.NewRouter()
	New(transcriber, chatSvc).RegisterRoutes(r)
	return r, chatSvc
}

func uploadAudio(t *testing.T, r http.Handler, field, filename string) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("fake-audio-bytes")); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/voice/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestUploadTranscribes(t *testing.T) {
	r, _ := setupRouter(&fakeTranscriber{text: "hello from voice"})

	resp := uploadAudio(t, r, "audio", "clip.webm")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Text != "hello from voice" {
		t.Fatalf("unexpected text: %q", body.Text)
	}
}

func TestUploadMissingFile(t *testing.T) {
	r, _ := setupRouter(&fakeTranscriber{text: "ignored"})

	resp := uploadAudio(t, r, "wrong-field", "clip.webm")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestUploadTranscriptionFailure(t *testing.T) {
	r, _ := setupRouter(&fakeTranscriber{
		err: fmt.Errorf("%w: upstream refused", speech.ErrTranscriptionFailed),
	})

	resp := uploadAudio(t, r, "audio", "clip.webm")
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestUploadWithoutTranscriber(t *testing.T) {
	r, _ := setupRouter(nil)

	resp := uploadAudio(t, r, "audio", "clip.webm")
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestVoiceMessageRecordsModality(t *testing.T) {
	r, chatSvc := setupRouter(&fakeTranscriber{text: "ignored"})
	ctx := context.Background()

	session, err := chatSvc.StartSession(ctx, "u1", "mulan")
	if err != nil {
		t.Fatalf("StartSession err: %v", err)
	}

	payload, _ := json.Marshal(map[string]string{
		"sessionId": session.ID,
		"content":   "how do you draw a bow?",
	})
	req := httptest.NewRequest(http.MethodPost, "/chat/voice", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	history, err := chatSvc.GetHistory(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetHistory err: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	if history[0].Type != chatmodel.MessageTypeVoice {
		t.Fatalf("inbound message should carry the voice modality, got %s", history[0].Type)
	}
	if history[1].Type != chatmodel.MessageTypeText {
		t.Fatalf("reply message should be text, got %s", history[1].Type)
	}
}

func TestVoiceMessageUnknownSession(t *testing.T) {
	r, _ := setupRouter(nil)

	payload, _ := json.Marshal(map[string]string{
		"sessionId": "nonexistent",
		"content":   "hi",
	})
	req := httptest.NewRequest(http.MethodPost, "/chat/voice", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
