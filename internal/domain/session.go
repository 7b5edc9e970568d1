package domain

import "fmt"

// Turn is a single role-tagged message within a session.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Session is one ongoing conversation: an opaque id, a title derived from the
// first user message, and an append-only turn history.
type Session struct {
	ID       SessionID `json:"id"`
	Title    string    `json:"title"`
	Messages []Turn    `json:"messages"`
}

// SessionSummary is the lightweight listing view of a session.
type SessionSummary struct {
	ID    SessionID `json:"id"`
	Title string    `json:"title"`
}

// NewSession builds an in-memory session seeded by the first user message.
// Nothing is persisted until the record is saved.
func NewSession(seedMessage string) *Session {
	return &Session{
		ID:       NewSessionID(),
		Title:    TitleFromMessage(seedMessage),
		Messages: []Turn{},
	}
}

// Append adds a turn to the end of the history.
func (s *Session) Append(role Role, content string) {
	s.Messages = append(s.Messages, Turn{Role: role, Content: content})
}

// Validate reports whether a stored record is well-formed. A record that
// fails here must be surfaced as corrupt, never partially returned.
func (s *Session) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("record has no id")
	}
	for i, t := range s.Messages {
		if t.Role != RoleUser && t.Role != RoleBot {
			return fmt.Errorf("message %d has invalid role %q", i, t.Role)
		}
	}
	return nil
}
