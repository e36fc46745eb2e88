package domain

import "errors"

var (
	// ErrDuplicateSession rejects a connection for a username that already
	// has a live session.
	ErrDuplicateSession = errors.New("user already connected")

	// ErrUnknownPlayer marks operations against a session that no longer
	// exists. Callers treat it as a no-op, not a fault.
	ErrUnknownPlayer = errors.New("unknown player")
)

// DuplicateSessionReason is the close reason the original client matches
// against, paired with websocket close code 1008 (policy violation).
const DuplicateSessionReason = "User already connected"
