package player

import (
	"context"
	"errors"
)

// Multi fans a completion out to every notifier in order. All notifiers
// run even when an earlier one fails; the errors are joined.
func Multi(notifiers ...CompletionNotifier) CompletionNotifier {
	return NotifierFunc(func(ctx context.Context, c Completion) error {
		var errs []error
		for _, n := range notifiers {
			if n == nil {
				continue
			}
			if err := n.LessonCompleted(ctx, c); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
