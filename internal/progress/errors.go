package progress

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSignedIn means no user is available; nothing was read or written.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrRecordNotFound is returned by stores for users without a record.
	// The tracker treats it as an empty record.
	ErrRecordNotFound = errors.New("progress record not found")

	// ErrLatchViolation is returned for any attempt to un-collect a reward.
	ErrLatchViolation = errors.New("reward latch cannot be reset")
)

// PersistenceError wraps a store failure with the operation that failed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("progress %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
