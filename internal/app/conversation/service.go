package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mobilindo/lapor-assistant/internal/domain"
	"github.com/mobilindo/lapor-assistant/internal/observability"
)

// ErrEmptyMessage rejects a chat turn before any state is touched.
var ErrEmptyMessage = errors.New("message is required")

// Service drives the full chat turn: resolve the session, append the user
// turn, replay the history to the model, append the reply and persist.
type Service struct {
	llm     domain.LLMClient
	store   domain.SessionStore
	logger  zerolog.Logger
	metrics *observability.Metrics

	// One mutex per session id, held across the load-mutate-save cycle so
	// concurrent turns against the same session serialize instead of the
	// second save silently dropping the first turn. Locks live for the
	// process lifetime.
	locksMu sync.Mutex
	locks   map[domain.SessionID]*sync.Mutex
}

func NewService(
	llm domain.LLMClient,
	store domain.SessionStore,
	logger zerolog.Logger,
	metrics *observability.Metrics,
) *Service {
	return &Service{
		llm:     llm,
		store:   store,
		logger:  logger,
		metrics: metrics,
		locks:   make(map[domain.SessionID]*sync.Mutex),
	}
}

func (s *Service) lockSession(id domain.SessionID) func() {
	s.locksMu.Lock()
	m, ok := s.locks[id]
	if !ok {
		m = &sync.Mutex{}
		s.locks[id] = m
	}
	s.locksMu.Unlock()

	m.Lock()
	return m.Unlock
}

type ChatInput struct {
	SessionID domain.SessionID
	Message   string
}

type ChatOutput struct {
	SessionID domain.SessionID
	Response  string
}

// Chat runs one conversation turn. A failed generation call is absorbed into
// the record as a bot turn carrying the user-facing error text, so the
// conversation stays well-formed and persisted; only a store failure is fatal
// to the request.
func (s *Service) Chat(ctx context.Context, in ChatInput) (*ChatOutput, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, ErrEmptyMessage
	}

	start := time.Now()
	defer func() {
		s.metrics.ChatTurnDuration.Observe(time.Since(start).Seconds())
	}()

	log := observability.LoggerFromContext(ctx, s.logger)

	var sess *domain.Session
	if in.SessionID == "" {
		sess = s.store.Create(in.Message)
		s.metrics.SessionsCreatedTotal.Inc()
		log.Info().Str("session_id", string(sess.ID)).Msg("created new session")
	} else {
		// Serialize the load-mutate-save cycle for this session.
		unlock := s.lockSession(in.SessionID)
		defer unlock()

		loaded, err := s.store.Load(in.SessionID)
		switch {
		case err == nil:
			sess = loaded
		case errors.Is(err, domain.ErrSessionNotFound):
			// Recoverable anomaly: keep the caller-supplied id valid by
			// starting a fresh record under it.
			log.Warn().Str("session_id", string(in.SessionID)).
				Msg("session not found, starting a fresh record under the supplied id")
			sess = s.store.Create(in.Message)
			sess.ID = in.SessionID
			s.metrics.SessionsCreatedTotal.Inc()
		default:
			log.Error().Err(err).Str("session_id", string(in.SessionID)).Msg("failed to load session")
			s.metrics.ChatTurnsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
	}

	log = log.With().Str("session_id", string(sess.ID)).Logger()

	sess.Append(domain.RoleUser, in.Message)

	reply, err := s.llm.GenerateReply(ctx, BuildHistory(sess))
	if err != nil {
		log.Error().Err(err).Msg("generation call failed, absorbing into conversation")
		s.metrics.InferenceFailuresTotal.Inc()
		reply = fmt.Sprintf("Maaf, terjadi kesalahan saat memproses permintaan Anda: %v", err)
	}

	sess.Append(domain.RoleBot, reply)

	if err := s.store.Save(sess); err != nil {
		log.Error().Err(err).Msg("failed to save session")
		s.metrics.ChatTurnsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("saving session %s: %w", sess.ID, err)
	}

	s.metrics.ChatTurnsTotal.WithLabelValues("ok").Inc()
	log.Info().Int("messages", len(sess.Messages)).Msg("chat turn completed")

	return &ChatOutput{SessionID: sess.ID, Response: reply}, nil
}

// GetConversation returns the full record for a session id.
func (s *Service) GetConversation(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	sess, err := s.store.Load(id)
	if err != nil {
		log := observability.LoggerFromContext(ctx, s.logger)
		log.Warn().
			Err(err).Str("session_id", string(id)).Msg("failed to load conversation")
		return nil, err
	}
	return sess, nil
}

// ListSessions returns all known session summaries, most recent first.
func (s *Service) ListSessions(ctx context.Context) ([]domain.SessionSummary, error) {
	summaries, err := s.store.List()
	if err != nil {
		log := observability.LoggerFromContext(ctx, s.logger)
		log.Error().Err(err).Msg("failed to list sessions")
		return nil, err
	}
	return summaries, nil
}
