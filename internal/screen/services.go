package screen

import (
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/abhisek/finwise/internal/coach"
	"github.com/abhisek/finwise/internal/identity"
	"github.com/abhisek/finwise/internal/lessons"
	"github.com/abhisek/finwise/internal/metrics"
	"github.com/abhisek/finwise/internal/player"
	"github.com/abhisek/finwise/internal/progress"
	"github.com/abhisek/finwise/internal/store"
)

// Services are the long-lived dependencies screens share. They are built
// once by the app and passed down by pointer.
type Services struct {
	Catalog  *lessons.Catalog
	Locale   language.Tag
	Currency string

	Users    *identity.Session
	Tracker  *progress.Tracker
	Events   store.EventRepo
	Coach    *coach.Service
	Notifier player.CompletionNotifier
	Player   player.Config

	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// UserID returns the signed-in user or "".
func (s *Services) UserID() string {
	if s.Users == nil {
		return ""
	}
	id, _ := s.Users.CurrentUser()
	return id
}

// Log returns the logger, never nil.
func (s *Services) Log() *zap.Logger {
	if s == nil || s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// EventRepo returns the event log, never nil.
func (s *Services) EventRepo() store.EventRepo {
	if s == nil || s.Events == nil {
		return store.NopEventRepo{}
	}
	return s.Events
}
