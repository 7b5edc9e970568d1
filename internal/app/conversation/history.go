package conversation

import "github.com/mobilindo/lapor-assistant/internal/domain"

// BuildHistory maps a session's turns to the role vocabulary the generation
// service expects: user turns stay "user", bot turns are replayed as "model".
// Order is preserved exactly as stored. It is called after the current user
// turn has been appended, so a new session yields a single-element history.
func BuildHistory(sess *domain.Session) []domain.PromptTurn {
	history := make([]domain.PromptTurn, 0, len(sess.Messages))
	for _, t := range sess.Messages {
		role := domain.PromptRoleUser
		if t.Role == domain.RoleBot {
			role = domain.PromptRoleModel
		}
		history = append(history, domain.PromptTurn{Role: role, Text: t.Content})
	}
	return history
}
