package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionID string

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// TitleMaxLen is the length (in runes) a session title is truncated to.
const TitleMaxLen = 50

// NewSessionID generates an opaque session identifier. The UTC timestamp
// prefix has nanosecond resolution, so reverse lexicographic order of ids
// (and of the files named after them) is a recency order even for sessions
// created back to back; the uuid suffix keeps ids unique regardless.
func NewSessionID() SessionID {
	return SessionID(time.Now().UTC().Format("20060102T150405.000000000") + "-" + uuid.NewString()[:8])
}

// TitleFromMessage derives a session title from the first user message,
// truncated to TitleMaxLen runes.
func TitleFromMessage(msg string) string {
	runes := []rune(msg)
	if len(runes) > TitleMaxLen {
		runes = runes[:TitleMaxLen]
	}
	return string(runes)
}
