package app

import (
	"context"
	"fmt"

	"github.com/vedasree28/student-buzz-central/internal/clock"
	"github.com/vedasree28/student-buzz-central/internal/domain"
)

type NotificationRepository interface {
	InsertNotifications(ctx context.Context, notifications []domain.Notification) error
	ListForUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id, userID string) error
}

// RegistrantLister is the slice of the registration store needed for fan-out.
type RegistrantLister interface {
	ListRegisteredUsers(ctx context.Context, eventID string) ([]string, error)
}

const defaultListLimit = 10

// NotificationService stores and serves per-user notification rows.
// Real-time delivery is a transport concern and lives elsewhere.
type NotificationService struct {
	repo        NotificationRepository
	registrants RegistrantLister
	clock       clock.Clock
}

func NewNotificationService(repo NotificationRepository, registrants RegistrantLister, clk clock.Clock) *NotificationService {
	return &NotificationService{
		repo:        repo,
		registrants: registrants,
		clock:       clk,
	}
}

// NotifyRegistrants writes one notification row per registered user.
func (s *NotificationService) NotifyRegistrants(ctx context.Context, event domain.Event, title, message string) error {
	users, err := s.registrants.ListRegisteredUsers(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("list registrants: %w", err)
	}
	if len(users) == 0 {
		return nil
	}

	now := s.clock.Now()
	rows := make([]domain.Notification, 0, len(users))
	for _, userID := range users {
		rows = append(rows, domain.Notification{
			ID:          newID(),
			UserID:      userID,
			EventID:     event.ID,
			Title:       title,
			Description: message,
			CreatedAt:   now,
		})
	}
	if err := s.repo.InsertNotifications(ctx, rows); err != nil {
		return fmt.Errorf("insert notifications: %w", err)
	}
	return nil
}

// ListForUser returns the user's newest notifications, most recent first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	return s.repo.ListForUser(ctx, userID, defaultListLimit)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if id == "" {
		return domain.ErrInvalidID
	}
	if userID == "" {
		return domain.ErrUserIDRequired
	}
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrUserIDRequired
	}
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, id, userID string) error {
	if id == "" {
		return domain.ErrInvalidID
	}
	if userID == "" {
		return domain.ErrUserIDRequired
	}
	return s.repo.Delete(ctx, id, userID)
}
