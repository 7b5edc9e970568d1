package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mobilindo/lapor-assistant/internal/app/conversation"
	"github.com/mobilindo/lapor-assistant/internal/domain"
	"github.com/mobilindo/lapor-assistant/internal/observability"
)

type Server struct {
	svc    *conversation.Service
	logger zerolog.Logger
}

// Options for the HTTP surface beyond the API itself.
type Options struct {
	// StaticDir, when set, is served at / for the bundled web front-end.
	StaticDir string
	// Metrics, when set, is exposed at /metrics.
	Metrics *observability.Metrics
}

func NewServer(svc *conversation.Service, logger zerolog.Logger, opts Options) http.Handler {
	s := &Server{svc: svc, logger: logger}
	mux := http.NewServeMux()

	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/conversation/", s.handleConversation)
	mux.HandleFunc("/healthz", s.handleHealthz)

	if opts.Metrics != nil {
		mux.Handle("/metrics", opts.Metrics.Handler())
	}
	if opts.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(opts.StaticDir)))
	}

	return chainMiddlewares(mux,
		withCORS,
		withLogging(logger),
		withRequestID,
	)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

type summaryResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type turnResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type conversationResponse struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Messages []turnResponse `json:"messages"`
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request")
		return
	}

	out, err := s.svc.Chat(r.Context(), conversation.ChatInput{
		SessionID: domain.SessionID(req.SessionID),
		Message:   req.Message,
	})
	if err != nil {
		if errors.Is(err, conversation.ErrEmptyMessage) {
			badRequest(w, "Invalid request")
			return
		}
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:  out.Response,
		SessionID: string(out.SessionID),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	summaries, err := s.svc.ListSessions(r.Context())
	if err != nil {
		internalError(w)
		return
	}

	resp := make([]summaryResponse, 0, len(summaries))
	for _, sum := range summaries {
		resp = append(resp, summaryResponse{ID: string(sum.ID), Title: sum.Title})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/conversation/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Conversation not found"})
		return
	}

	sess, err := s.svc.GetConversation(r.Context(), domain.SessionID(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Conversation not found"})
		case errors.Is(err, domain.ErrSessionCorrupt):
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Invalid conversation file"})
		default:
			internalError(w)
		}
		return
	}

	msgs := make([]turnResponse, 0, len(sess.Messages))
	for _, t := range sess.Messages {
		msgs = append(msgs, turnResponse{Role: string(t.Role), Content: t.Content})
	}

	writeJSON(w, http.StatusOK, conversationResponse{
		ID:       string(sess.ID),
		Title:    sess.Title,
		Messages: msgs,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─────────────────────────────────────────────
// HTTP helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func internalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
