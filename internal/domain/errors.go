package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTimeRange     = errors.New("event ends before it starts")
	ErrTitleRequired        = errors.New("event title required")
	ErrInvalidCapacity      = errors.New("invalid capacity")
	ErrUserIDRequired       = errors.New("user id required")
	ErrEventNotFound        = errors.New("event not found")
	ErrAlreadyRegistered    = errors.New("already registered")
	ErrEventFull            = errors.New("event at capacity")
	ErrNotRegistered        = errors.New("not registered")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidID            = errors.New("invalid id")

	// ErrOutcomeUnknown marks a mutation whose call was cancelled or timed
	// out before confirmation. The store may or may not have committed;
	// callers must re-query instead of trusting either outcome.
	ErrOutcomeUnknown = errors.New("registration outcome unknown")
)

// RepositoryError wraps a failure from the persistence collaborator. The
// core never retries these and never falls back to stale in-memory state.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}
