package domain

import "errors"

// Sentinel errors for session storage.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionCorrupt  = errors.New("session record corrupt")
)
