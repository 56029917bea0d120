package app

import (
	"context"
	"errors"
	"sync"

	"github.com/vedasree28/student-buzz-central/internal/clock"
	"github.com/vedasree28/student-buzz-central/internal/domain"
)

type RegistrationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error)
	CountRegistrations(ctx context.Context, eventID string) (int, error)
	IsRegistered(ctx context.Context, eventID, userID string) (bool, error)
	ListRegisteredUsers(ctx context.Context, eventID string) ([]string, error)
	ListAllRegistrations(ctx context.Context) (map[string][]string, error)
	InsertRegistration(ctx context.Context, reg domain.Registration) error
	DeleteRegistration(ctx context.Context, eventID, userID string) error
}

// RegistrationService owns the registration-set invariants: per-event
// capacity and at most one registration per (event, user). Every mutation is
// validated inside a single store transaction with the event row locked, so
// check-and-insert cannot interleave. The in-memory mirror only serves reads
// and is touched strictly after the store confirms; on any failed or
// ambiguous mutation the mirrored event is evicted and re-fetched on the
// next read rather than trusted.
type RegistrationService struct {
	repo  RegistrationRepository
	clock clock.Clock

	mu     sync.Mutex
	mirror map[string]map[string]struct{} // event ID -> registered user IDs
}

func NewRegistrationService(repo RegistrationRepository, clk clock.Clock) *RegistrationService {
	return &RegistrationService{
		repo:   repo,
		clock:  clk,
		mirror: make(map[string]map[string]struct{}),
	}
}

// Refresh replaces the mirrored membership for one event with the store's view.
func (s *RegistrationService) Refresh(ctx context.Context, eventID string) error {
	users, err := s.repo.ListRegisteredUsers(ctx, eventID)
	if err != nil {
		return &domain.RepositoryError{Op: "list registrations", Err: err}
	}
	s.mu.Lock()
	s.mirror[eventID] = toSet(users)
	s.mu.Unlock()
	return nil
}

// RefreshAll replaces the whole mirror with a single batched fetch.
func (s *RegistrationService) RefreshAll(ctx context.Context) error {
	all, err := s.repo.ListAllRegistrations(ctx)
	if err != nil {
		return &domain.RepositoryError{Op: "list all registrations", Err: err}
	}
	mirror := make(map[string]map[string]struct{}, len(all))
	for eventID, users := range all {
		mirror[eventID] = toSet(users)
	}
	s.mu.Lock()
	s.mirror = mirror
	s.mu.Unlock()
	return nil
}

// Evict drops the mirrored membership for an event, e.g. after the event
// itself was deleted and its registrations cascaded away.
func (s *RegistrationService) Evict(eventID string) {
	s.mu.Lock()
	delete(s.mirror, eventID)
	s.mu.Unlock()
}

// CanRegister is an advisory pre-check for UX. Register re-validates inside
// the store transaction, which remains the authoritative guard. A user who
// is already a member is never reported as bumped by capacity.
func (s *RegistrationService) CanRegister(ctx context.Context, event domain.Event, userID string) error {
	if userID == "" {
		return domain.ErrUserIDRequired
	}
	members, err := s.members(ctx, event.ID)
	if err != nil {
		return err
	}
	if _, ok := members[userID]; ok {
		return domain.ErrAlreadyRegistered
	}
	if len(members) >= event.Capacity {
		return domain.ErrEventFull
	}
	return nil
}

// Register adds the user to the event inside one store transaction and
// returns the resulting registration count. The capacity check and the
// insert share the transaction; the composite unique key surfaces a
// concurrent duplicate as ErrAlreadyRegistered.
func (s *RegistrationService) Register(ctx context.Context, event domain.Event, userID string) (int, error) {
	if userID == "" {
		return 0, domain.ErrUserIDRequired
	}

	now := s.clock.Now()
	var count int

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		ev, err := s.repo.GetEventForUpdate(txCtx, event.ID)
		if err != nil {
			return err
		}
		registered, err := s.repo.IsRegistered(txCtx, event.ID, userID)
		if err != nil {
			return err
		}
		if registered {
			return domain.ErrAlreadyRegistered
		}
		current, err := s.repo.CountRegistrations(txCtx, event.ID)
		if err != nil {
			return err
		}
		if current >= ev.Capacity {
			return domain.ErrEventFull
		}
		if err := s.repo.InsertRegistration(txCtx, domain.Registration{
			EventID:   event.ID,
			UserID:    userID,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		count = current + 1
		return nil
	})
	if err != nil {
		return 0, s.mutationErr("register", event.ID, err)
	}

	s.confirmMutation(ctx, event.ID, func(members map[string]struct{}) {
		members[userID] = struct{}{}
	})
	return count, nil
}

// Unregister removes the user's registration and returns the resulting
// count. Removing a non-member reports ErrNotRegistered so callers can tell
// stale state from a legitimate no-op.
func (s *RegistrationService) Unregister(ctx context.Context, event domain.Event, userID string) (int, error) {
	if userID == "" {
		return 0, domain.ErrUserIDRequired
	}

	var count int
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetEventForUpdate(txCtx, event.ID); err != nil {
			return err
		}
		current, err := s.repo.CountRegistrations(txCtx, event.ID)
		if err != nil {
			return err
		}
		if err := s.repo.DeleteRegistration(txCtx, event.ID, userID); err != nil {
			return err
		}
		count = current - 1
		return nil
	})
	if err != nil {
		return 0, s.mutationErr("unregister", event.ID, err)
	}

	s.confirmMutation(ctx, event.ID, func(members map[string]struct{}) {
		delete(members, userID)
	})
	return count, nil
}

// AvailableSlots reports the mirrored free capacity, never below zero.
func (s *RegistrationService) AvailableSlots(event domain.Event) int {
	s.mu.Lock()
	registered := len(s.mirror[event.ID])
	s.mu.Unlock()

	if free := event.Capacity - registered; free > 0 {
		return free
	}
	return 0
}

func (s *RegistrationService) IsFull(event domain.Event) bool {
	return s.AvailableSlots(event) == 0
}

func (s *RegistrationService) members(ctx context.Context, eventID string) (map[string]struct{}, error) {
	if members, ok := s.snapshot(eventID); ok {
		return members, nil
	}
	if err := s.Refresh(ctx, eventID); err != nil {
		return nil, err
	}
	members, _ := s.snapshot(eventID)
	return members, nil
}

// confirmMutation folds a committed mutation into the mirror. When the event
// has no mirrored entry yet, the membership set is fetched from the store
// instead of guessed at; a failed fetch leaves the entry absent for the next
// read to fill.
func (s *RegistrationService) confirmMutation(ctx context.Context, eventID string, apply func(members map[string]struct{})) {
	s.mu.Lock()
	if members, ok := s.mirror[eventID]; ok {
		apply(members)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	_ = s.Refresh(ctx, eventID)
}

func (s *RegistrationService) snapshot(eventID string) (map[string]struct{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.mirror[eventID]
	if !ok {
		return nil, false
	}
	out := make(map[string]struct{}, len(members))
	for u := range members {
		out[u] = struct{}{}
	}
	return out, true
}

// mutationErr classifies a failed guarded mutation. Domain sentinels pass
// through unchanged. A cancelled or timed-out call is ambiguous and becomes
// ErrOutcomeUnknown; everything else is a repository failure. In every case
// the mirrored event is evicted so the next read re-fetches from the store.
func (s *RegistrationService) mutationErr(op, eventID string, err error) error {
	s.Evict(eventID)

	switch {
	case errors.Is(err, domain.ErrAlreadyRegistered),
		errors.Is(err, domain.ErrEventFull),
		errors.Is(err, domain.ErrNotRegistered),
		errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrInvalidID):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errors.Join(domain.ErrOutcomeUnknown, err)
	default:
		return &domain.RepositoryError{Op: op, Err: err}
	}
}

func toSet(users []string) map[string]struct{} {
	set := make(map[string]struct{}, len(users))
	for _, u := range users {
		set[u] = struct{}{}
	}
	return set
}
