package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/finwise/internal/identity"
	"github.com/abhisek/finwise/internal/player"
	"github.com/abhisek/finwise/internal/progress"
	"github.com/abhisek/finwise/internal/store"
)

// EventNotifier appends a "complete" lesson event for every finished
// session. A failed append is logged and never fails the completion.
func EventNotifier(events store.EventRepo, users identity.Provider, logger *zap.Logger) player.CompletionNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return player.NotifierFunc(func(ctx context.Context, c player.Completion) error {
		userID, _ := users.CurrentUser()
		err := events.AppendLessonEvent(ctx, store.LessonEventData{
			SessionID:  c.SessionID,
			UserID:     userID,
			LessonID:   c.LessonID,
			Difficulty: string(c.Difficulty),
			Action:     store.ActionComplete,
			Correct:    c.Score.Correct,
			Answered:   c.Score.Answered,
			Duration:   c.FinishedAt.Sub(c.StartedAt),
		})
		if err != nil {
			logger.Warn("record lesson completion", zap.String("lesson", c.LessonID), zap.Error(err))
		}
		return nil
	})
}

// CompletionNotifier is what the lesson screen calls when a session
// finishes: the progress tracker first, then the event log.
func CompletionNotifier(tracker *progress.Tracker, events store.EventRepo, users identity.Provider, logger *zap.Logger) player.CompletionNotifier {
	return player.Multi(tracker.Notifier(), EventNotifier(events, users, logger))
}
