package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	httpadapter "github.com/mobilindo/lapor-assistant/internal/adapters/http"
	"github.com/mobilindo/lapor-assistant/internal/adapters/llm"
	"github.com/mobilindo/lapor-assistant/internal/adapters/storage/memory"
	"github.com/mobilindo/lapor-assistant/internal/app/conversation"
	"github.com/mobilindo/lapor-assistant/internal/domain"
	"github.com/mobilindo/lapor-assistant/internal/observability"
)

func newTestServer(t *testing.T, client domain.LLMClient) http.Handler {
	t.Helper()

	if client == nil {
		client = llm.NewMockClient()
	}
	store := memory.NewStore()
	svc := conversation.NewService(client, store, zerolog.Nop(), observability.NewMetrics())

	return httpadapter.NewServer(svc, zerolog.Nop(), httpadapter.Options{})
}

type brokenLLM struct{}

func (brokenLLM) GenerateReply(context.Context, []domain.PromptTurn) (string, error) {
	return "", errors.New("inference backend down")
}

func postJSON(t *testing.T, srv http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func getJSON(t *testing.T, srv http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, nil)

	w := getJSON(t, srv, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestChatRejectsMissingMessage(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, body := range []string{`{}`, `{"message":""}`, `not json`} {
		w := postJSON(t, srv, "/api/chat", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestChatCreatesSessionAndConversationIsReadable(t *testing.T) {
	srv := newTestServer(t, nil)

	w := postJSON(t, srv, "/api/chat", `{"message":"hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var chat struct {
		Response  string `json:"response"`
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &chat); err != nil {
		t.Fatalf("decoding chat response: %v", err)
	}
	if chat.SessionID == "" {
		t.Fatal("expected a newly generated session_id")
	}
	if chat.Response == "" {
		t.Fatal("expected a non-empty response")
	}

	w = getJSON(t, srv, "/api/conversation/"+chat.SessionID)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var conv struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &conv); err != nil {
		t.Fatalf("decoding conversation: %v", err)
	}
	if conv.ID != chat.SessionID {
		t.Fatalf("expected id %s, got %s", chat.SessionID, conv.ID)
	}
	if conv.Title != "hello" {
		t.Fatalf("expected title %q, got %q", "hello", conv.Title)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(conv.Messages))
	}
	if conv.Messages[0].Role != "user" || conv.Messages[0].Content != "hello" {
		t.Fatalf("unexpected first message: %+v", conv.Messages[0])
	}
	if conv.Messages[1].Role != "bot" {
		t.Fatalf("expected second message from bot, got %+v", conv.Messages[1])
	}
}

func TestChatContinuesExistingSession(t *testing.T) {
	srv := newTestServer(t, nil)

	w := postJSON(t, srv, "/api/chat", `{"message":"first"}`)
	var first struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatalf("decoding: %v", err)
	}

	w = postJSON(t, srv, "/api/chat", `{"message":"second","session_id":"`+first.SessionID+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = getJSON(t, srv, "/api/conversation/"+first.SessionID)
	var conv struct {
		Messages []json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &conv); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(conv.Messages) != 4 {
		t.Fatalf("expected 4 messages after two turns, got %d", len(conv.Messages))
	}
}

func TestChatAbsorbsInferenceFailure(t *testing.T) {
	srv := newTestServer(t, brokenLLM{})

	w := postJSON(t, srv, "/api/chat", `{"message":"hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("inference failure must stay a 200, got %d", w.Code)
	}

	var chat struct {
		Response  string `json:"response"`
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &chat); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if chat.Response == "" {
		t.Fatal("expected an error-describing answer")
	}

	// The turn, error text included, is persisted.
	w = getJSON(t, srv, "/api/conversation/"+chat.SessionID)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestConversationNotFound(t *testing.T) {
	srv := newTestServer(t, nil)

	w := getJSON(t, srv, "/api/conversation/does-not-exist")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestConversationEmptyIDReturnsJSONNotFound(t *testing.T) {
	srv := newTestServer(t, nil)

	w := getJSON(t, srv, "/api/conversation/")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if body.Error != "Conversation not found" {
		t.Fatalf("expected JSON error body, got %q", w.Body.String())
	}
}

func TestHistoryMostRecentFirst(t *testing.T) {
	srv := newTestServer(t, nil)

	var ids []string
	for _, msg := range []string{"s1", "s2", "s3"} {
		w := postJSON(t, srv, "/api/chat", `{"message":"`+msg+`"}`)
		var chat struct {
			SessionID string `json:"session_id"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &chat); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		ids = append(ids, chat.SessionID)
	}

	w := getJSON(t, srv, "/api/history")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var history []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(history))
	}
	// Ids carry a nanosecond timestamp prefix, so the listing is exactly
	// the creation order reversed.
	for i, h := range history {
		if want := ids[len(ids)-1-i]; h.ID != want {
			t.Fatalf("history[%d] = %s, want %s", i, h.ID, want)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)

	w := getJSON(t, srv, "/api/chat")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
	w = postJSON(t, srv, "/api/history", `{}`)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}
