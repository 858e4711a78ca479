package progress

import "context"

// Store is the persistence contract for progress records, keyed by user id.
type Store interface {
	// Get returns the user's record or ErrRecordNotFound.
	Get(ctx context.Context, userID string) (*Record, error)

	// Update merges the patch into the user's record, creating it when
	// missing. Implementations apply it with Patch.Apply.
	Update(ctx context.Context, userID string, p Patch) error
}
