// Package auth holds the in-memory API session and the credential store.
package auth

import "sync"

// Session holds the bearer token for the current process. At most one token
// is live at a time: a new login replaces the previous token and Clear drops
// it. The token is never written to disk.
type Session struct {
	mu    sync.Mutex
	token string
}

// NewSession creates a session, optionally seeded with a token (e.g. from
// the ATOMX_TOKEN environment variable).
func NewSession(token string) *Session {
	return &Session{token: token}
}

// Token returns the current bearer token, empty when unauthenticated.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetToken replaces the current token.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear drops the current token.
func (s *Session) Clear() {
	s.SetToken("")
}

// Authenticated reports whether a token is held. The token is not validated
// against the server; a stale token still counts.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}
