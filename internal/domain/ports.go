package domain

import "context"

// PromptRole is the role vocabulary the inference collaborator understands.
// User turns keep their role; bot turns are replayed as the model's own.
type PromptRole string

const (
	PromptRoleUser  PromptRole = "user"
	PromptRoleModel PromptRole = "model"
)

// PromptTurn is one role-tagged message in the sequence replayed to the model.
type PromptTurn struct {
	Role PromptRole
	Text string
}

// LLMClient defines how the core application talks to the generation service.
// The full reply text is awaited; streaming is not part of this contract.
type LLMClient interface {
	GenerateReply(ctx context.Context, history []PromptTurn) (string, error)
}

// SessionStore defines session persistence.
//
// Save must replace the stored record atomically: a concurrent Load or List
// never observes a half-written record. Save is unconditional last-writer-wins;
// serializing turns on one session is the caller's concern.
type SessionStore interface {
	// Create builds a fresh in-memory session. It does not persist.
	Create(seedMessage string) *Session

	// Load returns the record for id, ErrSessionNotFound when none exists,
	// or ErrSessionCorrupt when the stored record cannot be decoded.
	Load(id SessionID) (*Session, error)

	// Save durably persists the full record, replacing any previous version.
	Save(session *Session) error

	// List returns summaries for every known record, most recent first
	// (reverse id order). Corrupt records are skipped, not fatal.
	List() ([]SessionSummary, error)
}
