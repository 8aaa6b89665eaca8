package utils

import (
	"context"
	"time"
)

// SessionData is the per-request view of a resolved session, injected into the
// request context by the auth middleware.
type SessionData struct {
	SessionID     string
	Participant   bool
	BoundPassword string
	WorkshopName  string
	IsAdmin       bool
	ExpiresAt     time.Time
}

type contextKey string

const ContextSessionKey contextKey = "session"

func GetSessionFromContext(ctx context.Context) (SessionData, bool) {
	session, ok := ctx.Value(ContextSessionKey).(SessionData)
	return session, ok
}
