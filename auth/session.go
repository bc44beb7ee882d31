// Package auth admits the operator to the moderation endpoints. The session
// is resolved per request by a Provider and carried in the request context.
package auth

import (
	"context"
	"time"
)

// State is the resolution state of a request's session.
type State int

const (
	// Unknown means the provider could not resolve the session in time.
	Unknown State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Identity is what a provider knows about a signed-in operator.
type Identity struct {
	Subject   string    `json:"subject"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
	// Token is returned once at sign-in for callers that cannot keep cookies.
	Token string `json:"token,omitempty"`
}

// Session is the per-request view of the operator.
type Session struct {
	State    State     `json:"state"`
	Identity *Identity `json:"identity,omitempty"`
}

type contextKey string

const sessionKey contextKey = "session"

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFrom returns the session injected by the gate. Requests that did not
// pass through the gate have no session.
func SessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok && s != nil
}
