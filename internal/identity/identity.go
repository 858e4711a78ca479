// Package identity tells the rest of the app who is using it.
package identity

import (
	"strings"
	"sync"
)

// Provider supplies the current user id, or ok=false when nobody is signed
// in.
type Provider interface {
	CurrentUser() (userID string, ok bool)
}

// Static is a fixed user id, typically from config. The empty id means no
// user.
type Static string

func (s Static) CurrentUser() (string, bool) {
	id := strings.TrimSpace(string(s))
	return id, id != ""
}

// Session is a Provider the profile screen can sign in and out of.
type Session struct {
	mu     sync.RWMutex
	userID string
}

// NewSession starts a session, signed in as userID when it is non-empty.
func NewSession(userID string) *Session {
	return &Session{userID: strings.TrimSpace(userID)}
}

func (s *Session) CurrentUser() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.userID != ""
}

// SignIn switches to userID. A blank id signs out.
func (s *Session) SignIn(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = strings.TrimSpace(userID)
}

// SignOut clears the current user.
func (s *Session) SignOut() {
	s.SignIn("")
}
